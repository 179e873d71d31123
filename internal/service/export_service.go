package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"workdesk/internal/dto"
	"workdesk/internal/model"
	"workdesk/internal/policy"
	"workdesk/internal/repository"
	"workdesk/pkg/logger"
)

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 导出范围与列表接口一致：同样的可见性、状态与关键字条件，但不分页。
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	Export(ctx context.Context, kind ItemKind, userID, role string, req *dto.WorkItemExportRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	policy *policy.Policy
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, pol *policy.Policy, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, policy: pol, logger: logger}
}

var exportHeaders = []string{"标题", "状态", "创建人", "负责人", "描述", "创建时间", "更新时间"}

// Export 输出单 Sheet：表头一行，之后每条记录一行
// 返回值：buf（Excel 内容）, filename（建议文件名）, error
func (s *exportService) Export(ctx context.Context, kind ItemKind, userID, role string, req *dto.WorkItemExportRequest) (*bytes.Buffer, string, error) {
	lg := logger.From(ctx, s.logger).With(zap.String("module", kind.Module))

	filter := repository.WorkItemFilter{
		Kind:    kind.Module,
		Status:  req.Status,
		Keyword: req.Keyword,
	}
	if s.policy.IsRestrictedRole(role) {
		filter.VisibleTo = userID
	}

	// 1. 查询记录
	items, err := s.repo.WorkItem.List(ctx, filter)
	if err != nil {
		lg.Error("查询导出数据失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 批量查询创建人与负责人
	ids := collectAssigneeIDs(items)
	for i := range items {
		ids = append(ids, items[i].CreatorID)
	}
	users, err := s.repo.User.ListActiveByIDs(ctx, ids)
	if err != nil {
		lg.Error("批量查询用户失败", zap.Error(err))
		return nil, "", err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.UserID] = u.Name
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := kind.Label + "列表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	widths := []float64{30, 10, 12, 30, 50, 22, 22}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	for i, h := range exportHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(exportHeaders)-1), 1), headerStyle)

	for i := range items {
		row := i + 2
		values := exportRow(&items[i], names)
		for c, v := range values {
			f.SetCellValue(sheetName, cell(colName(c), row), v)
		}
	}

	// 4. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		lg.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s_%s.xlsx", kind.Label, time.Now().Format("20060102"))
	return buf, filename, nil
}

func exportRow(item *model.WorkItem, names map[string]string) []string {
	assignees := make([]string, 0, len(item.Assignees))
	for _, a := range item.Assignees {
		if n, ok := names[a.UserID]; ok {
			assignees = append(assignees, n)
		}
	}
	creator := names[item.CreatorID]
	if creator == "" {
		creator = "-"
	}
	return []string{
		item.Title,
		item.Status,
		creator,
		strings.Join(assignees, "、"),
		item.Description,
		item.CreatedAt.Format("2006-01-02 15:04"),
		item.UpdatedAt.Format("2006-01-02 15:04"),
	}
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
