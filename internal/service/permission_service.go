package service

import (
	"fmt"

	"github.com/RoyceAzure/lab/bookstore/internal/config"
)

type IPermissionService interface {
	Can(role string, action string) bool
}

// PermissionService 把 role -> permission 表在啟動時解析成靜態查表
// 取代舊系統散落各 route 的 is_admin 字串比對，每個 request 只查一次
type PermissionService struct {
	allowed map[string]map[string]struct{} // role -> "resource:action" set
}

func NewPermissionService(cf *config.PermissionConfig) *PermissionService {
	byID := make(map[int32]config.Permission, len(cf.Permissions))
	for _, p := range cf.Permissions {
		byID[p.ID] = p
	}

	allowed := make(map[string]map[string]struct{}, len(cf.RolePermission))
	for _, rp := range cf.RolePermission {
		actions := make(map[string]struct{})
		for _, pid := range rp.Permissions {
			p, ok := byID[pid]
			if !ok {
				continue
			}
			actions[fmt.Sprintf("%s:%s", p.Resource, p.Actions)] = struct{}{}
		}
		allowed[rp.Name] = actions
	}

	return &PermissionService{allowed: allowed}
}

// Can action 格式為 "resource:action"，例如 "orders:update_status"
func (s *PermissionService) Can(role string, action string) bool {
	actions, ok := s.allowed[role]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}
