package public

import (
	handlershared "github.com/foodshare-next/internal/http/handlers/shared"
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest 评价请求
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// CreateReview 领取人评价已完成的认领
func (h *Handler) CreateReview(c *gin.Context) {
	recipientID, ok := getUserID(c)
	if !ok {
		return
	}
	claimID, ok := handlershared.ParseUintParam(c, "id", "error.claim_id_invalid")
	if !ok {
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	review, stats, err := h.ReviewService.CreateReview(c.Request.Context(), service.CreateReviewInput{
		ClaimID:     claimID,
		RecipientID: recipientID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		rules := concatMappedHandlerErrors(reviewErrorRules, claimErrorRules)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.review_failed")
		return
	}
	response.Success(c, gin.H{
		"review":      review,
		"donor_stats": stats,
	})
}

// GetClaimReview 查看认领的评价
func (h *Handler) GetClaimReview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	claimID, ok := handlershared.ParseUintParam(c, "id", "error.claim_id_invalid")
	if !ok {
		return
	}
	review, err := h.ReviewService.GetClaimReview(claimID, userID)
	if err != nil {
		rules := concatMappedHandlerErrors(reviewErrorRules, claimErrorRules)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.review_fetch_failed")
		return
	}
	response.Success(c, review)
}

// GetDonorStats 商家公开评分汇总
func (h *Handler) GetDonorStats(c *gin.Context) {
	donorID, ok := handlershared.ParseUintParam(c, "id", "error.user_id_invalid")
	if !ok {
		return
	}
	stats, err := h.ReviewService.GetDonorStats(c.Request.Context(), donorID)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.donor_stats_failed")
		return
	}
	response.Success(c, stats)
}

// GetDonorReviews 商家收到的评价
func (h *Handler) GetDonorReviews(c *gin.Context) {
	donorID, ok := handlershared.ParseUintParam(c, "id", "error.user_id_invalid")
	if !ok {
		return
	}
	page, pageSize := parsePage(c)
	reviews, total, err := h.ReviewService.ListDonorReviews(donorID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.donor_stats_failed", err)
		return
	}
	response.SuccessWithPage(c, reviews, response.BuildPagination(page, pageSize, total))
}
