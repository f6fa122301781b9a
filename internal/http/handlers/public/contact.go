package public

import (
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitContactMessage 提交联系留言
func (h *Handler) SubmitContactMessage(c *gin.Context) {
	var req service.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	message, err := h.ContactService.Submit(req)
	if err != nil {
		respondWithMappedError(c, err, contactErrorRules, response.CodeInternal, "error.contact_submit_failed")
		return
	}
	response.Success(c, gin.H{"id": message.ID})
}
