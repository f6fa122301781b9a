package admin

import (
	"errors"
	"strings"

	"github.com/foodshare-next/internal/authz"
	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_policy_failed", err)
		return
	}
	response.Success(c, roles)
}

// GetAuthzRolePolicies 获取角色生效策略（含继承）
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := strings.TrimSpace(c.Query("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_policy_failed", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 为角色授予路由策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeInternal, "error.authz_policy_failed", err)
		return
	}
	logger.Infow("authz_policy_granted",
		"admin_id", adminID,
		"role", req.Role,
		"object", authz.NormalizeObject(req.Object),
		"action", authz.NormalizeAction(req.Action),
	)
	h.recordAudit(c, service.AuditRecordInput{
		OperatorID: adminID,
		Action:     constants.AuditActionPolicyGrant,
		TargetType: "role",
		Role:       strings.ToLower(strings.TrimSpace(req.Role)),
		Object:     authz.NormalizeObject(req.Object),
		Method:     authz.NormalizeAction(req.Action),
	})
	response.Success(c, gin.H{"granted": true})
}

// RevokeAuthzPolicy 撤销角色路由策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		if errors.Is(err, authz.ErrBuiltinPolicy) {
			respondError(c, response.CodeBadRequest, "error.authz_policy_builtin", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.authz_policy_failed", err)
		return
	}
	logger.Infow("authz_policy_revoked",
		"admin_id", adminID,
		"role", req.Role,
		"object", authz.NormalizeObject(req.Object),
		"action", authz.NormalizeAction(req.Action),
	)
	h.recordAudit(c, service.AuditRecordInput{
		OperatorID: adminID,
		Action:     constants.AuditActionPolicyRevoke,
		TargetType: "role",
		Role:       strings.ToLower(strings.TrimSpace(req.Role)),
		Object:     authz.NormalizeObject(req.Object),
		Method:     authz.NormalizeAction(req.Action),
	})
	response.Success(c, gin.H{"revoked": true})
}
