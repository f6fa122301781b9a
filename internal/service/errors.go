package service

import (
	"errors"
	"sort"
	"strings"
)

// 错误类别，handler 按类别映射响应码
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidCode     = errors.New("invalid confirmation code")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// domainError 带类别的业务错误
type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string {
	return e.msg
}

func (e *domainError) Is(target error) bool {
	return target == e.kind
}

func newDomainError(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

// 餐品与认领
var (
	ErrListingNotFound       = newDomainError(ErrNotFound, "listing not found")
	ErrClaimNotFound         = newDomainError(ErrNotFound, "claim not found")
	ErrListingUnavailable    = newDomainError(ErrConflict, "listing is no longer available")
	ErrClaimDuplicate        = newDomainError(ErrConflict, "listing already claimed by this recipient")
	ErrClaimStatusTransition = newDomainError(ErrConflict, "claim status transition not allowed")
	ErrListingStateConflict  = newDomainError(ErrConflict, "listing status does not match claim")
	ErrListingHasActiveClaim = newDomainError(ErrConflict, "listing has an active claim")
	ErrNotListingDonor       = newDomainError(ErrForbidden, "only the listing donor can change this claim")
	ErrNotClaimRecipient     = newDomainError(ErrForbidden, "claim does not belong to this recipient")
	ErrClaimOwnListing       = newDomainError(ErrForbidden, "donor cannot claim own listing")
	ErrRoleNotAllowed        = newDomainError(ErrForbidden, "role not allowed for this action")
	ErrClaimStatusInvalid    = newDomainError(ErrValidation, "claim status is invalid")
	ErrListingIDRequired     = newDomainError(ErrValidation, "listing id is required")
	ErrNotesTooLong          = newDomainError(ErrValidation, "notes too long")
)

// 评价
var (
	ErrReviewRatingInvalid = newDomainError(ErrValidation, "rating must be between 1 and 5")
	ErrReviewNotAllowed    = newDomainError(ErrConflict, "only completed claims can be reviewed")
	ErrReviewExists        = newDomainError(ErrConflict, "claim already reviewed")
	ErrReviewNotFound      = newDomainError(ErrNotFound, "review not found")
)

// 用户与认证
var (
	ErrUserNotFound       = newDomainError(ErrNotFound, "user not found")
	ErrEmailExists        = newDomainError(ErrConflict, "email already registered")
	ErrInvalidEmail       = newDomainError(ErrValidation, "invalid email")
	ErrRoleInvalid        = newDomainError(ErrValidation, "role must be donor or recipient")
	ErrUserStatusInvalid  = newDomainError(ErrValidation, "user status is invalid")
	ErrWeakPassword       = newDomainError(ErrValidation, "password does not meet policy")
	ErrInvalidCredentials = newDomainError(ErrUnauthenticated, "invalid email or password")
	ErrTokenInvalid       = newDomainError(ErrUnauthenticated, "invalid token")
	ErrUserDisabled       = newDomainError(ErrForbidden, "user disabled")
)

// 留言
var (
	ErrContactMessageNotFound = newDomainError(ErrNotFound, "contact message not found")
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+" "+e.Fields[key])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is 归类为 ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
