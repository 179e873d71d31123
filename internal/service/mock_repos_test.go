package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workdesk/config"
	"workdesk/internal/model"
	"workdesk/internal/policy"
	"workdesk/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
	// roleErr 非空时 RoleNamesByIDs 返回该错误
	roleErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

// add 以角色名快速创建用户
func (m *mockUserRepo) add(id, name, role string) *model.User {
	u := &model.User{
		UserID: id,
		Code:   "code-" + id,
		Name:   name,
		Role:   &model.Role{RoleID: "role-" + role, Name: role},
	}
	u.RoleID = u.Role.RoleID
	m.users[id] = u
	return u
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Code
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByCode(_ context.Context, code string) (*model.User, error) {
	for _, u := range m.users {
		if u.Code == code {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListActiveByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) RoleNamesByIDs(_ context.Context, ids []string) (map[string]string, error) {
	if m.roleErr != nil {
		return nil, m.roleErr
	}
	result := make(map[string]string)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result[id] = u.RoleName()
		}
	}
	return result, nil
}

// ── Mock WorkItemRepository ──

type mockWorkItemRepo struct {
	items    map[string]*model.WorkItem
	comments *mockCommentRepo
	users    *mockUserRepo
	seq      int
	clock    time.Time
}

func newMockWorkItemRepo(comments *mockCommentRepo) *mockWorkItemRepo {
	return &mockWorkItemRepo{
		items:    make(map[string]*model.WorkItem),
		comments: comments,
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// tick 每次调用前进一分钟，保证 created_at 有序
func (m *mockWorkItemRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func cloneItem(it *model.WorkItem) *model.WorkItem {
	c := *it
	c.Assignees = append([]model.WorkItemAssignee(nil), it.Assignees...)
	c.Comments = nil
	return &c
}

func (m *mockWorkItemRepo) Create(_ context.Context, item *model.WorkItem) error {
	if item.ItemID == "" {
		m.seq++
		item.ItemID = fmt.Sprintf("%s-%d", item.Kind, m.seq)
	}
	for i := range item.Assignees {
		item.Assignees[i].ItemID = item.ItemID
	}
	now := m.tick()
	item.CreatedAt, item.UpdatedAt = now, now
	m.items[item.ItemID] = cloneItem(item)
	return nil
}

func (m *mockWorkItemRepo) live(kind, id string) (*model.WorkItem, bool) {
	it, ok := m.items[id]
	if !ok || it.Kind != kind || it.DeletedAt.Valid {
		return nil, false
	}
	return it, true
}

func (m *mockWorkItemRepo) GetByID(_ context.Context, kind, id string) (*model.WorkItem, error) {
	if it, ok := m.live(kind, id); ok {
		return cloneItem(it), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkItemRepo) GetDetail(ctx context.Context, kind, id string) (*model.WorkItem, error) {
	it, err := m.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	it.Comments = m.comments.byItem(id)
	for i := range it.Comments {
		if m.users != nil {
			it.Comments[i].User = m.users.users[it.Comments[i].UserID]
		}
	}
	return it, nil
}

func (m *mockWorkItemRepo) visible(it *model.WorkItem, kind, visibleTo, status, keyword string) bool {
	if it.Kind != kind || it.DeletedAt.Valid {
		return false
	}
	if visibleTo != "" && it.CreatorID != visibleTo && !it.HasAssignee(visibleTo) {
		return false
	}
	if status != "" && it.Status != status {
		return false
	}
	if keyword != "" && !strings.Contains(it.Title, keyword) && !strings.Contains(it.Description, keyword) {
		return false
	}
	return true
}

func (m *mockWorkItemRepo) List(_ context.Context, f repository.WorkItemFilter) ([]model.WorkItem, error) {
	var result []model.WorkItem
	for _, it := range m.items {
		if m.visible(it, f.Kind, f.VisibleTo, f.Status, f.Keyword) {
			result = append(result, *cloneItem(it))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })

	if f.Limit <= 0 {
		return result, nil
	}
	if f.Offset >= len(result) {
		return nil, nil
	}
	end := f.Offset + f.Limit
	if end > len(result) {
		end = len(result)
	}
	return result[f.Offset:end], nil
}

func (m *mockWorkItemRepo) CountByStatus(_ context.Context, kind, visibleTo string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, it := range m.items {
		if m.visible(it, kind, visibleTo, "", "") {
			counts[it.Status]++
		}
	}
	return counts, nil
}

func (m *mockWorkItemRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	it, ok := m.items[id]
	if !ok {
		return nil
	}
	if s, ok := fields["status"].(string); ok {
		it.Status = s
	}
	it.UpdatedAt = m.tick()
	return nil
}

func (m *mockWorkItemRepo) ReplaceAssignees(_ context.Context, id string, userIDs []string) error {
	if it, ok := m.items[id]; ok {
		it.Assignees = model.NewAssignees(id, userIDs)
	}
	return nil
}

func (m *mockWorkItemRepo) SoftDelete(_ context.Context, id, deletedBy string) error {
	if it, ok := m.items[id]; ok {
		it.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		it.DeletedBy = &deletedBy
	}
	return nil
}

// ── Mock CommentRepository ──

type mockCommentRepo struct {
	comments []*model.WorkItemComment
	items    *mockWorkItemRepo
	seq      int
	// createErr 非空时 Create 返回该错误
	createErr error
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{}
}

func (m *mockCommentRepo) Create(_ context.Context, c *model.WorkItemComment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	if c.CommentID == "" {
		c.CommentID = fmt.Sprintf("comment-%d", m.seq)
	}
	c.CreatedAt = time.Date(2026, 3, 1, 10, m.seq, 0, 0, time.UTC)
	cp := *c
	m.comments = append(m.comments, &cp)
	return nil
}

func (m *mockCommentRepo) byItem(itemID string) []model.WorkItemComment {
	var out []model.WorkItemComment
	for _, c := range m.comments {
		if c.ItemID == itemID && !c.DeletedAt.Valid {
			out = append(out, *c)
		}
	}
	return out
}

func (m *mockCommentRepo) GetByID(_ context.Context, kind, id string) (*model.WorkItemComment, error) {
	for _, c := range m.comments {
		if c.CommentID != id || c.DeletedAt.Valid {
			continue
		}
		if _, ok := m.items.live(kind, c.ItemID); !ok {
			return nil, gorm.ErrRecordNotFound
		}
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCommentRepo) SoftDelete(_ context.Context, id string) error {
	for _, c := range m.comments {
		if c.CommentID == id {
			c.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		}
	}
	return nil
}

func (m *mockCommentRepo) SoftDeleteByItem(_ context.Context, itemID string) error {
	for _, c := range m.comments {
		if c.ItemID == itemID {
			c.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		}
	}
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	rows []*model.Notification
	seq  int
	// batchCalls 记录 BatchCreate 调用次数（含空批次）
	batchCalls int
	createErr  error
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) BatchCreate(_ context.Context, rows []model.Notification) error {
	m.batchCalls++
	if m.createErr != nil {
		return m.createErr
	}
	for i := range rows {
		m.seq++
		n := rows[i]
		if n.NotificationID == "" {
			n.NotificationID = fmt.Sprintf("n-%d", m.seq)
		}
		n.CreatedAt = time.Date(2026, 3, 1, 11, m.seq, 0, 0, time.UTC)
		m.rows = append(m.rows, &n)
	}
	return nil
}

func (m *mockNotificationRepo) live() []*model.Notification {
	var out []*model.Notification
	for _, n := range m.rows {
		if !n.DeletedAt.Valid {
			out = append(out, n)
		}
	}
	return out
}

func (m *mockNotificationRepo) forUser(userID string) []*model.Notification {
	var out []*model.Notification
	for _, n := range m.live() {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (m *mockNotificationRepo) List(_ context.Context, f repository.NotificationFilter) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range m.forUser(f.UserID) {
		if f.IsRead != nil && n.IsRead != *f.IsRead {
			continue
		}
		result = append(result, *n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if f.Limit > 0 {
		if f.Offset >= len(result) {
			return nil, nil
		}
		result = result[f.Offset:min(f.Offset+f.Limit, len(result))]
	}
	return result, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, row := range m.forUser(userID) {
		if row.IsRead == 0 {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) GetOwned(_ context.Context, userID, id string) (*model.Notification, error) {
	for _, n := range m.forUser(userID) {
		if n.NotificationID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, userID string, ids []string) (int64, error) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var affected int64
	for _, n := range m.forUser(userID) {
		if set[n.NotificationID] {
			n.IsRead = 1
			affected++
		}
	}
	return affected, nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var affected int64
	for _, n := range m.forUser(userID) {
		if n.IsRead == 0 {
			n.IsRead = 1
			affected++
		}
	}
	return affected, nil
}

func (m *mockNotificationRepo) SoftDelete(_ context.Context, userID, id string) error {
	for _, n := range m.forUser(userID) {
		if n.NotificationID == id {
			n.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		}
	}
	return nil
}

func (m *mockNotificationRepo) SoftDeleteByRelated(_ context.Context, module, relatedID string) error {
	for _, n := range m.live() {
		if n.Module == module && n.RelatedID != nil && *n.RelatedID == relatedID {
			n.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		}
	}
	return nil
}

// ── 测试辅助 ──

type mockRepos struct {
	repo          *repository.Repository
	users         *mockUserRepo
	items         *mockWorkItemRepo
	comments      *mockCommentRepo
	notifications *mockNotificationRepo
}

func newMockRepos() *mockRepos {
	comments := newMockCommentRepo()
	items := newMockWorkItemRepo(comments)
	comments.items = items

	m := &mockRepos{
		users:         newMockUserRepo(),
		items:         items,
		comments:      comments,
		notifications: newMockNotificationRepo(),
	}
	items.users = m.users
	m.repo = &repository.Repository{
		User:         m.users,
		WorkItem:     m.items,
		Comment:      m.comments,
		Notification: m.notifications,
	}

	// 默认用户：admin 为最高管理员，boss 为全权限，其余为受限角色
	m.users.add("admin", "管理员", "admin")
	m.users.add("boss", "老板", "boss")
	m.users.add("u1", "张三", "staff")
	m.users.add("u2", "李四", "staff")
	m.users.add("u3", "王五", "staff")
	return m
}

func newTestPolicy() *policy.Policy {
	return policy.New(config.PermissionConfig{
		FullPermissionRoles: []string{"admin", "boss"},
		TopAdminRole:        "admin",
	})
}

var testPageCfg = config.PaginationConfig{DefaultPageSize: 10, MaxPageSize: 200}

func setupTestWorkItemService(kind ItemKind) (WorkItemService, *mockRepos) {
	m := newMockRepos()
	pol := newTestPolicy()
	logger := zap.NewNop()
	dispatcher := NewNotificationDispatcher(m.repo, pol, logger)
	return NewWorkItemService(kind, m.repo, pol, dispatcher, testPageCfg, logger), m
}
