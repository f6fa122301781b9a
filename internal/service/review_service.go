package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foodshare-next/internal/cache"
	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/models"
	"github.com/foodshare-next/internal/queue"
	"github.com/foodshare-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxReviewCommentLength = 2000
	statsRefreshWindow     = 30 * time.Second
)

// ReviewService 评价与商家评分汇总
type ReviewService struct {
	db          *gorm.DB
	reviewRepo  repository.ReviewRepository
	claimRepo   repository.ClaimRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	cache       *cache.Store
	queueClient *queue.Client
	statsTTL    time.Duration
}

// NewReviewService 创建评价服务
func NewReviewService(
	db *gorm.DB,
	reviewRepo repository.ReviewRepository,
	claimRepo repository.ClaimRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	cacheStore *cache.Store,
	queueClient *queue.Client,
	statsTTL time.Duration,
) *ReviewService {
	if statsTTL <= 0 {
		statsTTL = time.Minute
	}
	return &ReviewService{
		db:          db,
		reviewRepo:  reviewRepo,
		claimRepo:   claimRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		cache:       cacheStore,
		queueClient: queueClient,
		statsTTL:    statsTTL,
	}
}

// CreateReviewInput 评价参数
type CreateReviewInput struct {
	ClaimID     uint
	RecipientID uint
	Rating      int
	Comment     string
}

// CreateReview 领取人评价已完成的认领，并在同一事务内重算商家评分
func (s *ReviewService) CreateReview(ctx context.Context, input CreateReviewInput) (*models.Review, *models.DonorStats, error) {
	if input.Rating < constants.ReviewRatingMin || input.Rating > constants.ReviewRatingMax {
		return nil, nil, ErrReviewRatingInvalid
	}
	comment := strings.TrimSpace(input.Comment)
	if len([]rune(comment)) > maxReviewCommentLength {
		return nil, nil, fieldError("comment", fmt.Sprintf("must be at most %d", maxReviewCommentLength))
	}

	var (
		review *models.Review
		stats  *models.DonorStats
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claims := s.claimRepo.WithTx(tx)
		reviews := s.reviewRepo.WithTx(tx)

		claim, err := claims.GetByIDForUpdate(input.ClaimID)
		if err != nil {
			return err
		}
		if claim == nil {
			return ErrClaimNotFound
		}
		if claim.RecipientID != input.RecipientID {
			return ErrNotClaimRecipient
		}
		if claim.Status != constants.ClaimStatusCompleted {
			return ErrReviewNotAllowed
		}
		listing, err := s.listingRepo.WithTx(tx).GetByID(claim.ListingID)
		if err != nil {
			return err
		}
		if listing == nil {
			return ErrListingNotFound
		}
		affected, err := claims.MarkReviewed(claim.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrReviewExists
		}

		review = &models.Review{
			ClaimID:     claim.ID,
			ListingID:   listing.ID,
			DonorID:     listing.DonorID,
			RecipientID: claim.RecipientID,
			Rating:      input.Rating,
			Comment:     comment,
		}
		if err := reviews.Create(review); err != nil {
			return err
		}
		stats, err = s.recompute(reviews, listing.DonorID)
		return err
	})
	if err != nil {
		if isDomainError(err) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.cache.DelDonorStats(ctx, review.DonorID); err != nil {
		logger.Warnw("donor_stats_cache_invalidate_failed", "donor_id", review.DonorID, "error", err)
	}
	logger.Infow("review_created",
		"review_id", review.ID,
		"claim_id", review.ClaimID,
		"donor_id", review.DonorID,
		"rating", review.Rating,
	)
	return review, stats, nil
}

// RefreshDonorStats 从明细重算商家汇总并清理缓存
func (s *ReviewService) RefreshDonorStats(ctx context.Context, donorID uint) (*models.DonorStats, error) {
	stats, err := s.recompute(s.reviewRepo.WithTx(s.db.WithContext(ctx)), donorID)
	if err != nil {
		return nil, fmt.Errorf("refresh donor stats: %w", err)
	}
	if err := s.cache.DelDonorStats(ctx, donorID); err != nil {
		logger.Warnw("donor_stats_cache_invalidate_failed", "donor_id", donorID, "error", err)
	}
	return stats, nil
}

// ScheduleStatsRefresh 异步刷新商家汇总，队列未启用时同步执行
func (s *ReviewService) ScheduleStatsRefresh(ctx context.Context, donorID uint) error {
	if s.queueClient.Enabled() {
		return s.queueClient.EnqueueDonorStatsRefresh(ctx, queue.DonorStatsRefreshPayload{DonorID: donorID}, statsRefreshWindow)
	}
	_, err := s.RefreshDonorStats(ctx, donorID)
	return err
}

// GetDonorStats 获取商家评分汇总，优先读缓存
func (s *ReviewService) GetDonorStats(ctx context.Context, donorID uint) (*models.DonorStats, error) {
	if cached, hit, err := s.cache.GetDonorStats(ctx, donorID); err == nil && hit {
		return cached, nil
	} else if err != nil {
		logger.Warnw("donor_stats_cache_get_failed", "donor_id", donorID, "error", err)
	}

	if s.userRepo != nil {
		donor, err := s.userRepo.GetByID(donorID)
		if err != nil {
			return nil, err
		}
		if donor == nil || donor.Role != constants.RoleDonor {
			return nil, ErrUserNotFound
		}
	}
	stats, err := s.reviewRepo.GetStats(donorID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetDonorStats(ctx, stats, s.statsTTL); err != nil {
		logger.Warnw("donor_stats_cache_set_failed", "donor_id", donorID, "error", err)
	}
	return stats, nil
}

// GetClaimReview 获取认领对应的评价，仅领取人与发布商家可见
func (s *ReviewService) GetClaimReview(claimID, userID uint) (*models.Review, error) {
	claim, err := s.claimRepo.GetByID(claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrClaimNotFound
	}
	if claim.RecipientID != userID && (claim.Listing == nil || claim.Listing.DonorID != userID) {
		return nil, ErrForbidden
	}
	review, err := s.reviewRepo.GetByClaimID(claimID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// ListDonorReviews 商家收到的评价列表
func (s *ReviewService) ListDonorReviews(donorID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.ListByDonor(donorID, page, pageSize)
}

func (s *ReviewService) recompute(reviews repository.ReviewRepository, donorID uint) (*models.DonorStats, error) {
	row, err := reviews.AggregateDonor(donorID)
	if err != nil {
		return nil, err
	}
	stats := &models.DonorStats{
		DonorID:         donorID,
		ReviewCount:     row.ReviewCount,
		RatingSum:       row.RatingSum,
		AverageRating:   averageRating(row.RatingSum, row.ReviewCount),
		CompletedClaims: row.CompletedClaims,
		UpdatedAt:       time.Now(),
	}
	if err := reviews.UpsertStats(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func averageRating(sum, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(count)).Round(2)
}
