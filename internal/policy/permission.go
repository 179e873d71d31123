// Package policy 角色权限判断
//
// 全权限角色集合由配置注入，业务代码不直接比较角色名。
package policy

import (
	"workdesk/config"
	"workdesk/internal/model"
)

// Policy 角色权限判断器，构造后只读，可并发使用
type Policy struct {
	fullPermission map[string]struct{}
	topAdmin       string
}

// New 根据权限配置创建 Policy
func New(cfg config.PermissionConfig) *Policy {
	p := &Policy{
		fullPermission: make(map[string]struct{}, len(cfg.FullPermissionRoles)),
		topAdmin:       cfg.TopAdminRole,
	}
	for _, r := range cfg.FullPermissionRoles {
		p.fullPermission[r] = struct{}{}
	}
	return p
}

// IsFullPermissionRole 是否为全权限角色
func (p *Policy) IsFullPermissionRole(roleName string) bool {
	_, ok := p.fullPermission[roleName]
	return ok
}

// IsRestrictedRole 是否为受限角色
func (p *Policy) IsRestrictedRole(roleName string) bool {
	return !p.IsFullPermissionRole(roleName)
}

// IsTopAdminRole 是否为最高管理员角色（不接收派发通知）
func (p *Policy) IsTopAdminRole(roleName string) bool {
	return p.topAdmin != "" && roleName == p.topAdmin
}

// CanAccessItem 全权限角色、创建人或负责人可访问
// item 需已加载 Assignees
func (p *Policy) CanAccessItem(userID, roleName string, item *model.WorkItem) bool {
	if p.IsFullPermissionRole(roleName) {
		return true
	}
	if item == nil {
		return false
	}
	return item.CreatorID == userID || item.HasAssignee(userID)
}
