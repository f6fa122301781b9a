package public

import (
	handlershared "github.com/foodshare-next/internal/http/handlers/shared"
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError = handlershared.MappedError

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var listingErrorRules = []mappedHandlerError{
	{Target: service.ErrListingNotFound, Code: response.CodeNotFound, Key: "error.listing_not_found"},
	{Target: service.ErrListingHasActiveClaim, Code: response.CodeConflict, Key: "error.listing_has_active_claim"},
	{Target: service.ErrNotListingDonor, Code: response.CodeForbidden, Key: "error.forbidden"},
}

var claimErrorRules = []mappedHandlerError{
	{Target: service.ErrClaimNotFound, Code: response.CodeNotFound, Key: "error.claim_not_found"},
	{Target: service.ErrListingNotFound, Code: response.CodeNotFound, Key: "error.listing_not_found"},
	{Target: service.ErrListingUnavailable, Code: response.CodeConflict, Key: "error.listing_unavailable"},
	{Target: service.ErrClaimDuplicate, Code: response.CodeConflict, Key: "error.claim_duplicate"},
	{Target: service.ErrClaimStatusTransition, Code: response.CodeConflict, Key: "error.claim_status_transition"},
	{Target: service.ErrListingStateConflict, Code: response.CodeConflict, Key: "error.listing_state_conflict"},
	{Target: service.ErrNotListingDonor, Code: response.CodeForbidden, Key: "error.claim_not_donor"},
	{Target: service.ErrNotClaimRecipient, Code: response.CodeForbidden, Key: "error.claim_not_recipient"},
	{Target: service.ErrClaimOwnListing, Code: response.CodeForbidden, Key: "error.claim_own_listing"},
	{Target: service.ErrClaimStatusInvalid, Code: response.CodeBadRequest, Key: "error.claim_status_invalid"},
	{Target: service.ErrListingIDRequired, Code: response.CodeBadRequest, Key: "error.listing_id_invalid"},
	{Target: service.ErrNotesTooLong, Code: response.CodeBadRequest, Key: "error.notes_too_long"},
	{Target: service.ErrInvalidCode, Code: response.CodeBadRequest, Key: "error.claim_code_invalid"},
}

var reviewErrorRules = []mappedHandlerError{
	{Target: service.ErrReviewRatingInvalid, Code: response.CodeBadRequest, Key: "error.review_rating_invalid"},
	{Target: service.ErrReviewNotAllowed, Code: response.CodeConflict, Key: "error.review_not_allowed"},
	{Target: service.ErrReviewExists, Code: response.CodeConflict, Key: "error.review_exists"},
	{Target: service.ErrReviewNotFound, Code: response.CodeNotFound, Key: "error.review_not_found"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
}

var authErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrRoleInvalid, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrUserDisabled, Code: response.CodeForbidden, Key: "error.user_disabled"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
}

var contactErrorRules = []mappedHandlerError{
	{Target: service.ErrContactMessageNotFound, Code: response.CodeNotFound, Key: "error.contact_message_not_found"},
}
