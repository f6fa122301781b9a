package admin

import (
	"strings"

	handlershared "github.com/foodshare-next/internal/http/handlers/shared"
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/repository"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

// recordAudit 写入审计日志，失败只记录告警不影响主流程
func (h *Handler) recordAudit(c *gin.Context, input service.AuditRecordInput) {
	if input.OperatorEmail == "" && input.OperatorID != 0 {
		if operator, err := h.UserRepo.GetByID(input.OperatorID); err == nil && operator != nil {
			input.OperatorEmail = operator.Email
		}
	}
	input.RequestID = c.GetString("request_id")
	if err := h.AuditService.Record(input); err != nil {
		handlershared.RequestLog(c).Warnw("admin_audit_record_failed",
			"operator_id", input.OperatorID,
			"action", input.Action,
			"error", err,
		)
	}
}

// GetAuditLogs 管理端操作审计日志
func (h *Handler) GetAuditLogs(c *gin.Context) {
	page, pageSize := parsePage(c)
	createdFrom, createdTo, ok := parseDateRange(c)
	if !ok {
		return
	}
	logs, total, err := h.AuditService.List(repository.AuditLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		OperatorID:  parseUintQuery(c, "operator_id"),
		Action:      strings.TrimSpace(c.Query("action")),
		TargetType:  strings.TrimSpace(c.Query("target_type")),
		TargetID:    parseUintQuery(c, "target_id"),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.audit_log_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, logs, response.BuildPagination(page, pageSize, total))
}

// GetLoginLogs 管理端登录日志
func (h *Handler) GetLoginLogs(c *gin.Context) {
	page, pageSize := parsePage(c)
	createdFrom, createdTo, ok := parseDateRange(c)
	if !ok {
		return
	}
	logs, total, err := h.LoginLogService.ListForAdmin(repository.UserLoginLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      parseUintQuery(c, "user_id"),
		Email:       c.Query("email"),
		Status:      c.Query("status"),
		FailReason:  strings.TrimSpace(c.Query("fail_reason")),
		ClientIP:    strings.TrimSpace(c.Query("client_ip")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.login_log_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, logs, response.BuildPagination(page, pageSize, total))
}
