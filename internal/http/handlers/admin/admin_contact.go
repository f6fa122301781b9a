package admin

import (
	"strings"

	"github.com/foodshare-next/internal/constants"
	handlershared "github.com/foodshare-next/internal/http/handlers/shared"
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/repository"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetContactMessages 留言列表
func (h *Handler) GetContactMessages(c *gin.Context) {
	page, pageSize := parsePage(c)
	filter := repository.ContactMessageListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}
	messages, total, err := h.ContactService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, messages, response.BuildPagination(page, pageSize, total))
}

// MarkContactMessageHandled 标记留言已处理
func (h *Handler) MarkContactMessageHandled(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.bad_request")
	if !ok {
		return
	}
	if err := h.ContactService.MarkHandled(id); err != nil {
		respondModerationError(c, err, "error.internal")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		OperatorID: adminID,
		Action:     constants.AuditActionContactDone,
		TargetType: "contact_message",
		TargetID:   id,
	})
	response.Success(c, gin.H{"handled": true})
}
