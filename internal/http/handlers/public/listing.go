package public

import (
	"strings"

	handlershared "github.com/foodshare-next/internal/http/handlers/shared"
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/repository"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

func listingFilterFromQuery(c *gin.Context) repository.ListingListFilter {
	page, pageSize := parsePage(c)
	return repository.ListingListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		City:     strings.TrimSpace(c.Query("city")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
}

// GetListings 公开餐品列表，默认只返回可认领的餐品
func (h *Handler) GetListings(c *gin.Context) {
	filter := listingFilterFromQuery(c)
	listings, total, err := h.ListingService.ListPublic(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.listing_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, listings, response.BuildPagination(filter.Page, filter.PageSize, total))
}

// GetListing 餐品详情
func (h *Handler) GetListing(c *gin.Context) {
	listingID, ok := handlershared.ParseUintParam(c, "id", "error.listing_id_invalid")
	if !ok {
		return
	}
	listing, err := h.ListingService.Get(listingID)
	if err != nil {
		respondWithMappedError(c, err, listingErrorRules, response.CodeInternal, "error.listing_fetch_failed")
		return
	}
	response.Success(c, listing)
}

// CreateListing 商家发布餐品
func (h *Handler) CreateListing(c *gin.Context) {
	donorID, ok := getUserID(c)
	if !ok {
		return
	}
	var req service.CreateListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	listing, err := h.ListingService.Create(c.Request.Context(), donorID, req)
	if err != nil {
		respondWithMappedError(c, err, listingErrorRules, response.CodeInternal, "error.listing_create_failed")
		return
	}
	response.Success(c, listing)
}

// UpdateListing 商家编辑餐品，仅接受白名单字段
func (h *Handler) UpdateListing(c *gin.Context) {
	donorID, ok := getUserID(c)
	if !ok {
		return
	}
	listingID, ok := handlershared.ParseUintParam(c, "id", "error.listing_id_invalid")
	if !ok {
		return
	}
	var req service.UpdateListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	listing, err := h.ListingService.Update(c.Request.Context(), listingID, donorID, req)
	if err != nil {
		respondWithMappedError(c, err, listingErrorRules, response.CodeInternal, "error.listing_update_failed")
		return
	}
	response.Success(c, listing)
}

// DeleteListing 商家删除餐品
func (h *Handler) DeleteListing(c *gin.Context) {
	donorID, ok := getUserID(c)
	if !ok {
		return
	}
	listingID, ok := handlershared.ParseUintParam(c, "id", "error.listing_id_invalid")
	if !ok {
		return
	}
	if err := h.ListingService.Delete(c.Request.Context(), listingID, donorID); err != nil {
		respondWithMappedError(c, err, listingErrorRules, response.CodeInternal, "error.listing_delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetDonorListings 商家自己的餐品，包含全部状态
func (h *Handler) GetDonorListings(c *gin.Context) {
	donorID, ok := getUserID(c)
	if !ok {
		return
	}
	filter := listingFilterFromQuery(c)
	listings, total, err := h.ListingService.ListByDonor(donorID, filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.listing_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, listings, response.BuildPagination(filter.Page, filter.PageSize, total))
}
