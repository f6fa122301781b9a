package admin

import (
	"strings"

	"github.com/foodshare-next/internal/constants"
	handlershared "github.com/foodshare-next/internal/http/handlers/shared"
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/models"
	"github.com/foodshare-next/internal/repository"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateUserStatusRequest 更新用户状态请求
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetAdminUsers 获取用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := parsePage(c)
	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
		Status:   strings.TrimSpace(c.Query("status")),
	}
	users, total, err := h.ModerationService.ListUsers(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_list_failed", err)
		return
	}
	response.SuccessWithPage(c, users, response.BuildPagination(page, pageSize, total))
}

// UpdateUserStatus 启用或禁用用户，禁用后已签发的登录凭证立即失效
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	userID, ok := handlershared.ParseUintParam(c, "id", "error.user_id_invalid")
	if !ok {
		return
	}
	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.ModerationService.SetUserStatus(c.Request.Context(), adminID, userID, req.Status)
	if err != nil {
		respondModerationError(c, err, "error.user_status_update_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		OperatorID: adminID,
		Action:     constants.AuditActionUserStatus,
		TargetType: "user",
		TargetID:   userID,
		Detail:     models.JSON{"status": user.Status},
	})
	response.Success(c, user)
}
