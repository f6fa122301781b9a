package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/metrics"
	"github.com/foodshare-next/internal/models"
	"github.com/foodshare-next/internal/queue"
	"github.com/foodshare-next/internal/repository"

	"gorm.io/gorm"
)

const maxClaimNotesLength = 1000

// 认领流转动作
const (
	claimActionCreate   = "claim"
	claimActionStatus   = "donor_status"
	claimActionCancel   = "recipient_cancel"
	claimActionComplete = "recipient_complete"
)

// claimTransitions 允许的认领状态流转
var claimTransitions = map[string]map[string]bool{
	constants.ClaimStatusPending: {
		constants.ClaimStatusConfirmed: true,
		constants.ClaimStatusCompleted: true,
		constants.ClaimStatusCancelled: true,
	},
	constants.ClaimStatusConfirmed: {
		constants.ClaimStatusCompleted: true,
		constants.ClaimStatusCancelled: true,
	},
}

// DonorStatsScheduler 认领完成后刷新商家汇总
type DonorStatsScheduler interface {
	ScheduleStatsRefresh(ctx context.Context, donorID uint) error
}

// ClaimService 认领流程服务
// 负责餐品状态与认领状态的联动，所有写操作在单个事务内完成。
type ClaimService struct {
	db          *gorm.DB
	listingRepo repository.ListingRepository
	claimRepo   repository.ClaimRepository
	codes       *CodeGenerator
	queueClient *queue.Client
	metrics     *metrics.ClaimMetrics
	stats       DonorStatsScheduler
	now         func() time.Time
}

// NewClaimService 创建认领服务
func NewClaimService(
	db *gorm.DB,
	listingRepo repository.ListingRepository,
	claimRepo repository.ClaimRepository,
	codes *CodeGenerator,
	queueClient *queue.Client,
	claimMetrics *metrics.ClaimMetrics,
) *ClaimService {
	if codes == nil {
		codes = NewCodeGenerator(nil)
	}
	return &ClaimService{
		db:          db,
		listingRepo: listingRepo,
		claimRepo:   claimRepo,
		codes:       codes,
		queueClient: queueClient,
		metrics:     claimMetrics,
		now:         time.Now,
	}
}

// SetStatsScheduler 设置商家汇总刷新器，为 nil 时完成认领不触发刷新
func (s *ClaimService) SetStatsScheduler(scheduler DonorStatsScheduler) {
	s.stats = scheduler
}

// ClaimResult 认领结果
type ClaimResult struct {
	ClaimID          uint          `json:"claim_id"`
	ConfirmationCode string        `json:"confirmation_code"`
	Claim            *models.Claim `json:"claim"`
}

// UpdateClaimStatusInput 商家更新认领状态参数
type UpdateClaimStatusInput struct {
	ClaimID          uint
	ActorID          uint
	Status           string
	VerificationCode string
}

// claimTxRepos 事务内仓库
type claimTxRepos struct {
	listings repository.ListingRepository
	claims   repository.ClaimRepository
}

// transition 单次状态流转
type transition struct {
	claim       *models.Claim
	listing     *models.Listing
	target      string
	actorID     uint
	action      string
	completedBy string
}

// transitionOutcome 流转结果，提交后用于通知与指标
type transitionOutcome struct {
	changed     bool
	listingFrom string
	listingTo   string
}

// ClaimListing 领取人认领餐品
func (s *ClaimService) ClaimListing(ctx context.Context, listingID, recipientID uint, notes string) (*ClaimResult, error) {
	const op = "claim_listing"
	if listingID == 0 {
		s.observe(op, ErrListingIDRequired)
		return nil, ErrListingIDRequired
	}
	notes = strings.TrimSpace(notes)
	if len([]rune(notes)) > maxClaimNotesLength {
		s.observe(op, ErrNotesTooLong)
		return nil, ErrNotesTooLong
	}
	code, err := s.codes.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}

	var claim *models.Claim
	var listing *models.Listing
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.txRepos(tx)
		current, err := repos.listings.GetByIDForUpdate(listingID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrListingNotFound
		}
		if current.DonorID == recipientID {
			return ErrClaimOwnListing
		}
		existing, err := repos.claims.FindActiveByListingAndRecipient(listingID, recipientID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrClaimDuplicate
		}
		if current.Status != constants.ListingStatusAvailable {
			return ErrListingUnavailable
		}
		affected, err := repos.listings.TransitionStatus(listingID, []string{constants.ListingStatusAvailable}, constants.ListingStatusReserved)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrListingUnavailable
		}

		now := s.now()
		claim = &models.Claim{
			ListingID:        listingID,
			RecipientID:      recipientID,
			Status:           constants.ClaimStatusPending,
			Notes:            notes,
			ConfirmationCode: code,
			ClaimedAt:        now,
		}
		if err := repos.claims.Create(claim); err != nil {
			return err
		}
		if err := repos.claims.CreateEvent(&models.ClaimEvent{
			ClaimID:     claim.ID,
			ListingID:   listingID,
			ActorID:     recipientID,
			Action:      claimActionCreate,
			ToStatus:    constants.ClaimStatusPending,
			ListingFrom: constants.ListingStatusAvailable,
			ListingTo:   constants.ListingStatusReserved,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		current.Status = constants.ListingStatusReserved
		listing = current
		return nil
	})
	s.observe(op, err)
	if err != nil {
		if isDomainError(err) {
			logger.Debugw("claim_listing_rejected", "listing_id", listingID, "recipient_id", recipientID, "error", err)
			return nil, err
		}
		logger.Warnw("claim_listing_failed", "listing_id", listingID, "recipient_id", recipientID, "error", err)
		return nil, fmt.Errorf("claim listing: %w", err)
	}

	s.metrics.ObserveTransition(constants.ListingStatusAvailable, constants.ListingStatusReserved)
	s.notify(ctx, claim, listing)
	logger.Infow("claim_listing_success", "listing_id", listingID, "claim_id", claim.ID, "recipient_id", recipientID)
	claim.Listing = listing
	return &ClaimResult{ClaimID: claim.ID, ConfirmationCode: claim.ConfirmationCode, Claim: claim}, nil
}

// UpdateClaimStatus 商家更新认领状态（确认 / 核销完成 / 取消）
func (s *ClaimService) UpdateClaimStatus(ctx context.Context, input UpdateClaimStatusInput) (*models.Claim, error) {
	const op = "update_claim_status"
	target := strings.ToLower(strings.TrimSpace(input.Status))
	if !isKnownClaimStatus(target) {
		s.observe(op, ErrClaimStatusInvalid)
		return nil, ErrClaimStatusInvalid
	}

	claim, err := s.runTransition(ctx, op, input.ClaimID, func(claim *models.Claim, listing *models.Listing) (*transition, error) {
		if listing.DonorID != input.ActorID {
			return nil, ErrNotListingDonor
		}
		if strings.TrimSpace(input.VerificationCode) != "" {
			code, err := normalizeConfirmationCode(input.VerificationCode)
			if err != nil || claim.ConfirmationCode == "" || code != strings.ToUpper(claim.ConfirmationCode) {
				return nil, ErrInvalidCode
			}
		}
		return &transition{
			target:      target,
			actorID:     input.ActorID,
			action:      claimActionStatus,
			completedBy: constants.ClaimCompletedByDonor,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return claim, nil
}

// CancelReservation 领取人取消认领，listingID 为 0 时不校验所属餐品
func (s *ClaimService) CancelReservation(ctx context.Context, claimID, recipientID, listingID uint) (*models.Claim, error) {
	return s.runTransition(ctx, "cancel_reservation", claimID, func(claim *models.Claim, listing *models.Listing) (*transition, error) {
		if claim.RecipientID != recipientID {
			return nil, ErrNotClaimRecipient
		}
		if listingID != 0 && claim.ListingID != listingID {
			return nil, ErrClaimNotFound
		}
		return &transition{
			target:  constants.ClaimStatusCancelled,
			actorID: recipientID,
			action:  claimActionCancel,
		}, nil
	})
}

// CompletePickup 领取人确认取餐完成
// 与商家核销走同一套效果：认领完成、记录核销时间、餐品置为 claimed。
func (s *ClaimService) CompletePickup(ctx context.Context, claimID, recipientID uint) (*models.Claim, error) {
	return s.runTransition(ctx, "complete_pickup", claimID, func(claim *models.Claim, listing *models.Listing) (*transition, error) {
		if claim.RecipientID != recipientID {
			return nil, ErrNotClaimRecipient
		}
		return &transition{
			target:      constants.ClaimStatusCompleted,
			actorID:     recipientID,
			action:      claimActionComplete,
			completedBy: constants.ClaimCompletedByRecipient,
		}, nil
	})
}

type authorizeFunc func(claim *models.Claim, listing *models.Listing) (*transition, error)

// runTransition 加锁读取认领与餐品，鉴权后在同一事务内执行流转
func (s *ClaimService) runTransition(ctx context.Context, op string, claimID uint, authorize authorizeFunc) (*models.Claim, error) {
	var (
		result  *models.Claim
		listing *models.Listing
		outcome transitionOutcome
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.txRepos(tx)
		claim, err := repos.claims.GetByIDForUpdate(claimID)
		if err != nil {
			return err
		}
		if claim == nil {
			return ErrClaimNotFound
		}
		current, err := repos.listings.GetByIDForUpdate(claim.ListingID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrListingNotFound
		}
		t, err := authorize(claim, current)
		if err != nil {
			return err
		}
		t.claim = claim
		t.listing = current
		outcome, err = s.applyTransition(repos, t)
		if err != nil {
			return err
		}
		result = claim
		listing = current
		return nil
	})
	s.observe(op, err)
	if err != nil {
		if isDomainError(err) {
			logger.Debugw("claim_transition_rejected", "operation", op, "claim_id", claimID, "error", err)
			return nil, err
		}
		logger.Warnw("claim_transition_failed", "operation", op, "claim_id", claimID, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if outcome.changed {
		s.metrics.ObserveTransition(outcome.listingFrom, outcome.listingTo)
		s.notify(ctx, result, listing)
		if result.Status == constants.ClaimStatusCompleted {
			s.scheduleStatsRefresh(ctx, listing.DonorID)
		}
		logger.Infow("claim_transition_applied",
			"operation", op,
			"claim_id", result.ID,
			"listing_id", result.ListingID,
			"status", result.Status,
			"listing_status", listing.Status,
		)
	}
	result.Listing = listing
	return result, nil
}

// applyTransition 校验当前状态并写入认领与餐品的联动变更
// 目标状态与当前一致时视为幂等，不做任何写入。
func (s *ClaimService) applyTransition(repos claimTxRepos, t *transition) (transitionOutcome, error) {
	claim, listing := t.claim, t.listing
	outcome := transitionOutcome{listingFrom: listing.Status, listingTo: listing.Status}
	if claim.Status == t.target {
		return outcome, nil
	}
	if !claimTransitions[claim.Status][t.target] {
		return outcome, ErrClaimStatusTransition
	}

	now := s.now()
	updates := map[string]interface{}{}
	var listingTo string
	switch t.target {
	case constants.ClaimStatusCompleted:
		updates["verified_at"] = now
		updates["completed_by"] = t.completedBy
		listingTo = constants.ListingStatusClaimed
	case constants.ClaimStatusCancelled:
		updates["cancelled_at"] = now
		listingTo = constants.ListingStatusAvailable
	}

	if listingTo != "" {
		affected, err := repos.listings.TransitionStatus(listing.ID, []string{constants.ListingStatusReserved}, listingTo)
		if err != nil {
			return outcome, err
		}
		if affected == 0 {
			return outcome, ErrListingStateConflict
		}
	}
	if err := repos.claims.UpdateStatus(claim.ID, t.target, updates); err != nil {
		return outcome, err
	}
	if err := repos.claims.CreateEvent(&models.ClaimEvent{
		ClaimID:     claim.ID,
		ListingID:   listing.ID,
		ActorID:     t.actorID,
		Action:      t.action,
		FromStatus:  claim.Status,
		ToStatus:    t.target,
		ListingFrom: listing.Status,
		ListingTo:   firstNonEmpty(listingTo, listing.Status),
		CreatedAt:   now,
	}); err != nil {
		return outcome, err
	}

	claim.Status = t.target
	claim.UpdatedAt = now
	switch t.target {
	case constants.ClaimStatusCompleted:
		claim.VerifiedAt = &now
		claim.CompletedBy = t.completedBy
	case constants.ClaimStatusCancelled:
		claim.CancelledAt = &now
	}
	if listingTo != "" {
		listing.Status = listingTo
		outcome.listingTo = listingTo
	}
	outcome.changed = true
	return outcome, nil
}

// EnsureConfirmationCodes 为商家餐品下缺少取件码的认领补发取件码
// 幂等：已有取件码的认领不会被覆盖，返回本次补发数量。
func (s *ClaimService) EnsureConfirmationCodes(ctx context.Context, donorID uint) (int, error) {
	claimRepo := s.claimRepo.WithTx(s.db.WithContext(ctx))
	missing, err := claimRepo.ListMissingCodeByDonor(donorID)
	if err != nil {
		return 0, fmt.Errorf("list claims missing code: %w", err)
	}
	filled := 0
	for _, claim := range missing {
		code, err := s.codes.Generate()
		if err != nil {
			return filled, fmt.Errorf("generate confirmation code: %w", err)
		}
		affected, err := claimRepo.SetConfirmationCode(claim.ID, code)
		if err != nil {
			return filled, fmt.Errorf("set confirmation code: %w", err)
		}
		filled += int(affected)
	}
	if filled > 0 {
		s.metrics.AddBackfilledCodes(filled)
		logger.Infow("claim_confirmation_codes_backfilled", "donor_id", donorID, "count", filled)
	}
	return filled, nil
}

// ListDonorClaims 商家查看收到的认领
func (s *ClaimService) ListDonorClaims(filter repository.ClaimListFilter) ([]models.Claim, int64, error) {
	return s.claimRepo.ListByDonor(filter)
}

// ListRecipientClaims 领取人查看自己的认领
func (s *ClaimService) ListRecipientClaims(filter repository.ClaimListFilter) ([]models.Claim, int64, error) {
	return s.claimRepo.ListByRecipient(filter)
}

// ListAdminClaims 管理端认领列表
func (s *ClaimService) ListAdminClaims(filter repository.ClaimListFilter) ([]models.Claim, int64, error) {
	return s.claimRepo.ListAdmin(filter)
}

// GetClaimForRecipient 领取人查看认领详情
func (s *ClaimService) GetClaimForRecipient(claimID, recipientID uint) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByIDAndRecipient(claimID, recipientID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrClaimNotFound
	}
	return claim, nil
}

// GetClaimForDonor 商家查看认领详情
func (s *ClaimService) GetClaimForDonor(claimID, donorID uint) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil || claim.Listing == nil {
		return nil, ErrClaimNotFound
	}
	if claim.Listing.DonorID != donorID {
		return nil, ErrNotListingDonor
	}
	return claim, nil
}

// ListClaimEvents 认领流转记录，商家与领取人均可查看
func (s *ClaimService) ListClaimEvents(claimID, userID uint) ([]models.ClaimEvent, error) {
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
	return s.claimRepo.ListEvents(claimID)
}

func (s *ClaimService) txRepos(tx *gorm.DB) claimTxRepos {
	return claimTxRepos{
		listings: s.listingRepo.WithTx(tx),
		claims:   s.claimRepo.WithTx(tx),
	}
}

// notify 提交后推送状态变更任务，失败只记录日志
func (s *ClaimService) notify(ctx context.Context, claim *models.Claim, listing *models.Listing) {
	if s.queueClient == nil || claim == nil || listing == nil {
		return
	}
	if err := s.queueClient.EnqueueClaimStatusChanged(ctx, queue.ClaimStatusChangedPayload{
		ClaimID:       claim.ID,
		ListingID:     listing.ID,
		DonorID:       listing.DonorID,
		RecipientID:   claim.RecipientID,
		Status:        claim.Status,
		ListingStatus: listing.Status,
	}); err != nil {
		logger.Warnw("claim_enqueue_status_changed_failed",
			"claim_id", claim.ID,
			"status", claim.Status,
			"error", err,
		)
	}
}

// scheduleStatsRefresh 完成认领后刷新商家汇总，失败只记录日志
func (s *ClaimService) scheduleStatsRefresh(ctx context.Context, donorID uint) {
	if s.stats == nil || donorID == 0 {
		return
	}
	if err := s.stats.ScheduleStatsRefresh(ctx, donorID); err != nil {
		logger.Warnw("claim_stats_refresh_failed", "donor_id", donorID, "error", err)
	}
}

func (s *ClaimService) observe(op string, err error) {
	s.metrics.ObserveOperation(op, outcomeLabel(err))
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrConflict):
		return metrics.ResultConflict
	case errors.Is(err, ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, ErrForbidden):
		return metrics.ResultForbidden
	case errors.Is(err, ErrInvalidCode):
		return metrics.ResultInvalidCode
	case errors.Is(err, ErrValidation):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

func isDomainError(err error) bool {
	return outcomeLabel(err) != metrics.ResultError
}

func isKnownClaimStatus(status string) bool {
	switch status {
	case constants.ClaimStatusPending,
		constants.ClaimStatusConfirmed,
		constants.ClaimStatusCompleted,
		constants.ClaimStatusCancelled:
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
