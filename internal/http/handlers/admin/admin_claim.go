package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/foodshare-next/internal/constants"
	handlershared "github.com/foodshare-next/internal/http/handlers/shared"
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/repository"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

func parseUintQuery(c *gin.Context, key string) uint {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	from, err := parseDateQuery(c, "created_from")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return nil, nil, false
	}
	to, err := parseDateQuery(c, "created_to")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return nil, nil, false
	}
	return from, to, true
}

// GetAdminClaims 管理端认领列表
func (h *Handler) GetAdminClaims(c *gin.Context) {
	page, pageSize := parsePage(c)
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	filter := repository.ClaimListFilter{
		Page:        page,
		PageSize:    pageSize,
		DonorID:     parseUintQuery(c, "donor_id"),
		RecipientID: parseUintQuery(c, "recipient_id"),
		ListingID:   parseUintQuery(c, "listing_id"),
		Status:      strings.ToLower(strings.TrimSpace(c.Query("status"))),
		CreatedFrom: from,
		CreatedTo:   to,
	}
	claims, total, err := h.ClaimService.ListAdminClaims(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.claim_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, claims, response.BuildPagination(page, pageSize, total))
}

// DeleteListing 管理员下架餐品，连同认领记录一起删除
func (h *Handler) DeleteListing(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	listingID, ok := handlershared.ParseUintParam(c, "id", "error.listing_id_invalid")
	if !ok {
		return
	}
	if err := h.ModerationService.DeleteListing(c.Request.Context(), adminID, listingID); err != nil {
		respondModerationError(c, err, "error.listing_delete_failed")
		return
	}
	h.recordAudit(c, service.AuditRecordInput{
		OperatorID: adminID,
		Action:     constants.AuditActionListingForce,
		TargetType: "listing",
		TargetID:   listingID,
	})
	response.Success(c, gin.H{"deleted": true})
}
