package authz

import (
	"fmt"

	"github.com/foodshare-next/internal/constants"
)

// roleMember 所有登录用户共有的基础角色
const roleMember = "member"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: roleMember,
			Policies: []Policy{
				{Object: "/me", Action: "GET"},
				{Object: "/me", Action: "PUT"},
				{Object: "/me/login-logs", Action: "GET"},
				{Object: "/claims/:id/events", Action: "GET"},
				{Object: "/claims/:id/review", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleDonor,
			Inherits: []string{roleMember},
			Policies: []Policy{
				{Object: "/listings", Action: "POST"},
				{Object: "/listings/:id", Action: "PUT"},
				{Object: "/listings/:id", Action: "DELETE"},
				{Object: "/donor/listings", Action: "GET"},
				{Object: "/donor/claims", Action: "GET"},
				{Object: "/claims/:id/status", Action: "PUT"},
			},
		},
		{
			Role:     constants.RoleRecipient,
			Inherits: []string{roleMember},
			Policies: []Policy{
				{Object: "/listings/:id/claim", Action: "POST"},
				{Object: "/recipient/claims", Action: "GET"},
				{Object: "/recipient/claims/:id", Action: "GET"},
				{Object: "/reservations/:id/cancel", Action: "POST"},
				{Object: "/claims/:id/complete", Action: "POST"},
				{Object: "/claims/:id/review", Action: "POST"},
			},
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{roleMember},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

func isBuiltinPolicy(role, object, action string) bool {
	for _, seed := range BuiltinRoleSeeds() {
		seedRole, err := NormalizeRole(seed.Role)
		if err != nil || seedRole != role {
			continue
		}
		for _, policy := range seed.Policies {
			if NormalizeObject(policy.Object) == object && NormalizeAction(policy.Action) == action {
				return true
			}
		}
	}
	return false
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
