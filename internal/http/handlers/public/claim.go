package public

import (
	"errors"
	"io"
	"strconv"
	"strings"

	handlershared "github.com/foodshare-next/internal/http/handlers/shared"
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/repository"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ClaimListingRequest 认领请求
type ClaimListingRequest struct {
	Notes string `json:"notes"`
}

// UpdateClaimStatusRequest 商家更新认领状态请求
type UpdateClaimStatusRequest struct {
	Status           string `json:"status" binding:"required"`
	VerificationCode string `json:"verification_code"`
}

// CancelReservationRequest 取消认领请求
type CancelReservationRequest struct {
	ListingID uint `json:"listing_id"`
}

// bindOptionalJSON 允许空请求体
func bindOptionalJSON(c *gin.Context, target interface{}) error {
	if err := c.ShouldBindJSON(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func claimFilterFromQuery(c *gin.Context) repository.ClaimListFilter {
	page, pageSize := parsePage(c)
	filter := repository.ClaimListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}
	if raw := strings.TrimSpace(c.Query("listing_id")); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.ListingID = uint(id)
		}
	}
	return filter
}

// ClaimListing 领取人认领餐品
func (h *Handler) ClaimListing(c *gin.Context) {
	recipientID, ok := getUserID(c)
	if !ok {
		return
	}
	listingID, ok := handlershared.ParseUintParam(c, "id", "error.listing_id_invalid")
	if !ok {
		return
	}
	var req ClaimListingRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.ClaimService.ClaimListing(c.Request.Context(), listingID, recipientID, req.Notes)
	if err != nil {
		respondWithMappedError(c, err, claimErrorRules, response.CodeInternal, "error.claim_failed")
		return
	}
	response.Success(c, result)
}

// GetDonorClaims 商家查看收到的认领，读取前补齐缺失的取件码
func (h *Handler) GetDonorClaims(c *gin.Context) {
	donorID, ok := getUserID(c)
	if !ok {
		return
	}
	if _, err := h.ClaimService.EnsureConfirmationCodes(c.Request.Context(), donorID); err != nil {
		respondError(c, response.CodeInternal, "error.claim_fetch_failed", err)
		return
	}
	filter := claimFilterFromQuery(c)
	filter.DonorID = donorID
	claims, total, err := h.ClaimService.ListDonorClaims(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.claim_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, claims, response.BuildPagination(filter.Page, filter.PageSize, total))
}

// UpdateClaimStatus 商家确认或核销认领
func (h *Handler) UpdateClaimStatus(c *gin.Context) {
	donorID, ok := getUserID(c)
	if !ok {
		return
	}
	claimID, ok := handlershared.ParseUintParam(c, "id", "error.claim_id_invalid")
	if !ok {
		return
	}
	var req UpdateClaimStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	claim, err := h.ClaimService.UpdateClaimStatus(c.Request.Context(), service.UpdateClaimStatusInput{
		ClaimID:          claimID,
		ActorID:          donorID,
		Status:           req.Status,
		VerificationCode: req.VerificationCode,
	})
	if err != nil {
		respondWithMappedError(c, err, claimErrorRules, response.CodeInternal, "error.claim_update_failed")
		return
	}
	response.Success(c, claim)
}

// GetRecipientClaims 领取人的认领列表
func (h *Handler) GetRecipientClaims(c *gin.Context) {
	recipientID, ok := getUserID(c)
	if !ok {
		return
	}
	filter := claimFilterFromQuery(c)
	filter.RecipientID = recipientID
	claims, total, err := h.ClaimService.ListRecipientClaims(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.claim_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, claims, response.BuildPagination(filter.Page, filter.PageSize, total))
}

// GetRecipientClaim 领取人认领详情
func (h *Handler) GetRecipientClaim(c *gin.Context) {
	recipientID, ok := getUserID(c)
	if !ok {
		return
	}
	claimID, ok := handlershared.ParseUintParam(c, "id", "error.claim_id_invalid")
	if !ok {
		return
	}
	claim, err := h.ClaimService.GetClaimForRecipient(claimID, recipientID)
	if err != nil {
		respondWithMappedError(c, err, claimErrorRules, response.CodeInternal, "error.claim_fetch_failed")
		return
	}
	response.Success(c, claim)
}

// CancelReservation 领取人取消认领，餐品恢复可认领
func (h *Handler) CancelReservation(c *gin.Context) {
	recipientID, ok := getUserID(c)
	if !ok {
		return
	}
	claimID, ok := handlershared.ParseUintParam(c, "id", "error.claim_id_invalid")
	if !ok {
		return
	}
	var req CancelReservationRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	claim, err := h.ClaimService.CancelReservation(c.Request.Context(), claimID, recipientID, req.ListingID)
	if err != nil {
		respondWithMappedError(c, err, claimErrorRules, response.CodeInternal, "error.claim_update_failed")
		return
	}
	response.Success(c, claim)
}

// CompletePickup 领取人确认已取餐
func (h *Handler) CompletePickup(c *gin.Context) {
	recipientID, ok := getUserID(c)
	if !ok {
		return
	}
	claimID, ok := handlershared.ParseUintParam(c, "id", "error.claim_id_invalid")
	if !ok {
		return
	}
	claim, err := h.ClaimService.CompletePickup(c.Request.Context(), claimID, recipientID)
	if err != nil {
		respondWithMappedError(c, err, claimErrorRules, response.CodeInternal, "error.claim_update_failed")
		return
	}
	response.Success(c, claim)
}

// GetClaimEvents 认领流转记录，商家与领取人可见
func (h *Handler) GetClaimEvents(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	claimID, ok := handlershared.ParseUintParam(c, "id", "error.claim_id_invalid")
	if !ok {
		return
	}
	events, err := h.ClaimService.ListClaimEvents(claimID, userID)
	if err != nil {
		respondWithMappedError(c, err, claimErrorRules, response.CodeInternal, "error.claim_fetch_failed")
		return
	}
	response.Success(c, events)
}
