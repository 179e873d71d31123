package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workdesk/config"
	"workdesk/internal/dto"
	"workdesk/internal/model"
	"workdesk/internal/policy"
	"workdesk/internal/repository"
	pkgerrors "workdesk/pkg/errors"
	"workdesk/pkg/logger"
)

const timeLayout = time.RFC3339

// UpdateInput 工作项更新参数，nil 字段表示不修改
type UpdateInput struct {
	ID              string
	Status          *string
	AssignedUserIDs []string
}

// WorkItemService 工作任务 / 日程业务接口
// 同一实现按 ItemKind 配置实例化两次
type WorkItemService interface {
	Kind() ItemKind
	List(ctx context.Context, userID, role string, req *dto.WorkItemListRequest) ([]dto.WorkItemResponse, error)
	Detail(ctx context.Context, userID, role, id string) (*dto.WorkItemDetailResponse, error)
	Create(ctx context.Context, creatorID string, req *dto.WorkItemCreateRequest) (*dto.WorkItemResponse, error)
	Update(ctx context.Context, userID, role string, in UpdateInput) (*dto.WorkItemResponse, error)
	Delete(ctx context.Context, userID, role, id string) error
	CreateComment(ctx context.Context, userID, role, itemID, content string) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID, role, commentID string) error
	Statistics(ctx context.Context, userID, role string) (*dto.StatisticsResponse, error)
}

type workItemService struct {
	kind       ItemKind
	repo       *repository.Repository
	policy     *policy.Policy
	dispatcher *NotificationDispatcher
	pageCfg    config.PaginationConfig
	logger     *zap.Logger
}

// NewWorkItemService 创建指定类别的 WorkItemService
func NewWorkItemService(
	kind ItemKind,
	repo *repository.Repository,
	pol *policy.Policy,
	dispatcher *NotificationDispatcher,
	pageCfg config.PaginationConfig,
	logger *zap.Logger,
) WorkItemService {
	return &workItemService{
		kind:       kind,
		repo:       repo,
		policy:     pol,
		dispatcher: dispatcher,
		pageCfg:    pageCfg,
		logger:     logger,
	}
}

func (s *workItemService) Kind() ItemKind { return s.kind }

func (s *workItemService) log(ctx context.Context) *zap.Logger {
	return logger.From(ctx, s.logger).With(zap.String("module", s.kind.Module))
}

func (s *workItemService) errNotFound() error {
	return pkgerrors.New(pkgerrors.ErrNotFound, s.kind.Label+"不存在")
}

func (s *workItemService) errNoPermission() error {
	return pkgerrors.New(pkgerrors.ErrNoPermission, "无权限操作该"+s.kind.Label)
}

// visibleTo 受限角色只能看到自己创建或负责的记录
func (s *workItemService) visibleTo(userID, role string) string {
	if s.policy.IsFullPermissionRole(role) {
		return ""
	}
	return userID
}

// getItem 查询记录，不存在时转换为业务错误
func (s *workItemService) getItem(ctx context.Context, id string) (*model.WorkItem, error) {
	item, err := s.repo.WorkItem.GetByID(ctx, s.kind.Module, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.errNotFound()
		}
		s.log(ctx).Error("查询记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return item, nil
}

// ────────────────────── List ──────────────────────

func (s *workItemService) List(ctx context.Context, userID, role string, req *dto.WorkItemListRequest) ([]dto.WorkItemResponse, error) {
	offset, limit := req.OffsetLimit(s.pageCfg.DefaultPageSize, s.pageCfg.MaxPageSize)

	items, err := s.repo.WorkItem.List(ctx, repository.WorkItemFilter{
		Kind:      s.kind.Module,
		VisibleTo: s.visibleTo(userID, role),
		Status:    req.Status,
		Keyword:   req.Keyword,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		s.log(ctx).Error("查询列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return s.toResponses(ctx, items)
}

// ────────────────────── Detail ──────────────────────

func (s *workItemService) Detail(ctx context.Context, userID, role, id string) (*dto.WorkItemDetailResponse, error) {
	item, err := s.repo.WorkItem.GetDetail(ctx, s.kind.Module, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.errNotFound()
		}
		s.log(ctx).Error("查询详情失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if !s.policy.CanAccessItem(userID, role, item) {
		return nil, s.errNoPermission()
	}

	list, err := s.toResponses(ctx, []model.WorkItem{*item})
	if err != nil {
		return nil, err
	}

	resp := &dto.WorkItemDetailResponse{
		WorkItemResponse: list[0],
		Comments:         make([]dto.CommentResponse, 0, len(item.Comments)),
	}
	for i := range item.Comments {
		resp.Comments = append(resp.Comments, toCommentResponse(&item.Comments[i]))
	}
	return resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *workItemService) Create(ctx context.Context, creatorID string, req *dto.WorkItemCreateRequest) (*dto.WorkItemResponse, error) {
	if creatorID == "" {
		return nil, pkgerrors.New(pkgerrors.ErrBadRequest, "缺少创建人")
	}

	item := &model.WorkItem{
		Kind:        s.kind.Module,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusPending,
		CreatorID:   creatorID,
		CompanyID:   req.CompanyID,
		Assignees:   model.NewAssignees("", req.AssignedUserIDs),
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return tx.WorkItem.Create(ctx, item)
	})
	if err != nil {
		s.log(ctx).Error("创建记录失败", zap.String("creator_id", creatorID), zap.Error(err))
		return nil, err
	}

	if len(item.Assignees) > 0 {
		s.dispatcher.Dispatch(ctx, s.kind, DispatchEvent{
			ItemID:          item.ItemID,
			CreatorID:       creatorID,
			AssignedUserIDs: item.AssigneeIDs(),
			Op:              OpCreate,
		})
	}

	list, err := s.toResponses(ctx, []model.WorkItem{*item})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// ────────────────────── Update ──────────────────────

// canUpdate 全权限角色、创建人，以及允许时的负责人
func (s *workItemService) canUpdate(userID, role string, item *model.WorkItem) bool {
	if s.policy.IsFullPermissionRole(role) || item.CreatorID == userID {
		return true
	}
	return s.kind.AssigneeCanUpdate && item.HasAssignee(userID)
}

func (s *workItemService) Update(ctx context.Context, userID, role string, in UpdateInput) (*dto.WorkItemResponse, error) {
	if in.Status != nil && !model.IsValidStatus(*in.Status) {
		return nil, pkgerrors.New(pkgerrors.ErrBadRequest, "状态值不合法")
	}

	item, err := s.getItem(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !s.canUpdate(userID, role, item) {
		return nil, s.errNoPermission()
	}

	oldStatus := item.Status
	statusChanged := in.Status != nil && *in.Status != oldStatus

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		fields := map[string]interface{}{}
		if in.Status != nil {
			fields["status"] = *in.Status
		}
		if in.AssignedUserIDs != nil {
			if err := tx.WorkItem.ReplaceAssignees(ctx, item.ItemID, in.AssignedUserIDs); err != nil {
				return err
			}
		}
		if err := tx.WorkItem.UpdateFields(ctx, item.ItemID, fields); err != nil {
			return err
		}

		if s.kind.AutoStatusComment && statusChanged {
			// 系统回复失败不影响状态更新
			err := tx.Transaction(ctx, func(sp *repository.Repository) error {
				return sp.Comment.Create(ctx, &model.WorkItemComment{
					ItemID:   item.ItemID,
					UserID:   userID,
					Content:  statusChangeComment(oldStatus, *in.Status),
					IsSystem: true,
				})
			})
			if err != nil {
				s.log(ctx).Warn("写入状态变更回复失败", zap.String("id", item.ItemID), zap.Error(err))
			}
		}
		return nil
	})
	if err != nil {
		s.log(ctx).Error("更新记录失败", zap.String("id", item.ItemID), zap.Error(err))
		return nil, err
	}

	updated, err := s.getItem(ctx, item.ItemID)
	if err != nil {
		return nil, err
	}

	if len(updated.Assignees) > 0 {
		s.dispatcher.Dispatch(ctx, s.kind, DispatchEvent{
			ItemID:          updated.ItemID,
			CreatorID:       updated.CreatorID,
			AssignedUserIDs: updated.AssigneeIDs(),
			Op:              OpUpdate,
			OperatorID:      userID,
		})
	}

	list, err := s.toResponses(ctx, []model.WorkItem{*updated})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// ────────────────────── Delete ──────────────────────

func (s *workItemService) Delete(ctx context.Context, userID, role, id string) error {
	if !s.policy.IsFullPermissionRole(role) {
		return pkgerrors.New(pkgerrors.ErrForbidden, "当前角色不允许删除"+s.kind.Label)
	}

	item, err := s.getItem(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.WorkItem.SoftDelete(ctx, item.ItemID, userID); err != nil {
			return err
		}
		if err := tx.Comment.SoftDeleteByItem(ctx, item.ItemID); err != nil {
			return err
		}
		return tx.Notification.SoftDeleteByRelated(ctx, s.kind.Module, item.ItemID)
	})
	if err != nil {
		s.log(ctx).Error("删除记录失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.log(ctx).Info("记录已删除", zap.String("id", id), zap.String("operator", userID))
	return nil
}

// ────────────────────── Comments ──────────────────────

func (s *workItemService) CreateComment(ctx context.Context, userID, role, itemID, content string) (*dto.CommentResponse, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanAccessItem(userID, role, item) {
		return nil, s.errNoPermission()
	}

	comment := &model.WorkItemComment{
		ItemID:  item.ItemID,
		UserID:  userID,
		Content: content,
	}
	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		s.log(ctx).Error("创建回复失败", zap.String("item_id", itemID), zap.Error(err))
		return nil, err
	}

	if author, err := s.repo.User.GetByID(ctx, userID); err == nil {
		comment.User = author
	}

	if s.kind.NotifyOnComment {
		s.dispatcher.Dispatch(ctx, s.kind, DispatchEvent{
			ItemID:          item.ItemID,
			CreatorID:       item.CreatorID,
			AssignedUserIDs: item.AssigneeIDs(),
			Op:              OpComment,
			OperatorID:      userID,
		})
	}

	resp := toCommentResponse(comment)
	return &resp, nil
}

func (s *workItemService) DeleteComment(ctx context.Context, userID, role, commentID string) error {
	comment, err := s.repo.Comment.GetByID(ctx, s.kind.Module, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.ErrNotFound, "回复不存在")
		}
		s.log(ctx).Error("查询回复失败", zap.String("id", commentID), zap.Error(err))
		return err
	}

	if comment.UserID != userID && !s.policy.IsFullPermissionRole(role) {
		return pkgerrors.New(pkgerrors.ErrNoPermission, "只能删除自己的回复")
	}

	if err := s.repo.Comment.SoftDelete(ctx, commentID); err != nil {
		s.log(ctx).Error("删除回复失败", zap.String("id", commentID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Statistics ──────────────────────

func (s *workItemService) Statistics(ctx context.Context, userID, role string) (*dto.StatisticsResponse, error) {
	counts, err := s.repo.WorkItem.CountByStatus(ctx, s.kind.Module, s.visibleTo(userID, role))
	if err != nil {
		s.log(ctx).Error("统计失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &dto.StatisticsResponse{
		Pending:    counts[model.StatusPending],
		InProgress: counts[model.StatusInProgress],
		AtRisk:     counts[model.StatusAtRisk],
	}, nil
}

// ────────────────────── DTO 转换 ──────────────────────

// toResponses 转换为响应并批量解析负责人信息
// assignedUsers 与 assignedUserIds 顺序一致，已删除或不存在的用户跳过
func (s *workItemService) toResponses(ctx context.Context, items []model.WorkItem) ([]dto.WorkItemResponse, error) {
	out := make([]dto.WorkItemResponse, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	users, err := s.lookupUsers(ctx, collectAssigneeIDs(items))
	if err != nil {
		return nil, err
	}

	for i := range items {
		resp := toWorkItemResponse(&items[i])
		resp.AssignedUsers = make([]dto.UserBrief, 0, len(resp.AssignedUserIDs))
		for _, uid := range resp.AssignedUserIDs {
			if u, ok := users[uid]; ok {
				resp.AssignedUsers = append(resp.AssignedUsers, toUserBrief(u))
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *workItemService) lookupUsers(ctx context.Context, ids []string) (map[string]*model.User, error) {
	result := make(map[string]*model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	users, err := s.repo.User.ListActiveByIDs(ctx, ids)
	if err != nil {
		s.log(ctx).Error("批量查询用户失败", zap.Int("count", len(ids)), zap.Error(err))
		return nil, err
	}
	for i := range users {
		result[users[i].UserID] = &users[i]
	}
	return result, nil
}

func collectAssigneeIDs(items []model.WorkItem) []string {
	seen := make(map[string]struct{})
	var ids []string
	for i := range items {
		for _, a := range items[i].Assignees {
			if _, ok := seen[a.UserID]; ok {
				continue
			}
			seen[a.UserID] = struct{}{}
			ids = append(ids, a.UserID)
		}
	}
	return ids
}

func toWorkItemResponse(item *model.WorkItem) dto.WorkItemResponse {
	return dto.WorkItemResponse{
		ID:              item.ItemID,
		Title:           item.Title,
		Description:     item.Description,
		Status:          item.Status,
		CreatorID:       item.CreatorID,
		CompanyID:       item.CompanyID,
		AssignedUserIDs: item.AssigneeIDs(),
		CreatedAt:       item.CreatedAt.Format(timeLayout),
		UpdatedAt:       item.UpdatedAt.Format(timeLayout),
	}
}

func toUserBrief(u *model.User) dto.UserBrief {
	return dto.UserBrief{
		ID:         u.UserID,
		Name:       u.Name,
		Code:       u.Code,
		Department: u.Department,
		Role:       u.RoleName(),
	}
}

func toCommentResponse(c *model.WorkItemComment) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:        c.CommentID,
		ItemID:    c.ItemID,
		UserID:    c.UserID,
		Content:   c.Content,
		IsSystem:  c.IsSystem,
		CreatedAt: c.CreatedAt.Format(timeLayout),
	}
	if c.User != nil {
		brief := toUserBrief(c.User)
		resp.User = &brief
	}
	return resp
}
