package admin

import (
	handlershared "github.com/foodshare-next/internal/http/handlers/shared"
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

var moderationErrorRules = []handlershared.MappedError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrUserStatusInvalid, Code: response.CodeBadRequest, Key: "error.user_status_invalid"},
	{Target: service.ErrRoleNotAllowed, Code: response.CodeForbidden, Key: "error.role_forbidden"},
	{Target: service.ErrListingNotFound, Code: response.CodeNotFound, Key: "error.listing_not_found"},
	{Target: service.ErrContactMessageNotFound, Code: response.CodeNotFound, Key: "error.contact_message_not_found"},
}

func respondModerationError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondMappedError(c, err, moderationErrorRules, response.CodeInternal, fallbackKey)
}
