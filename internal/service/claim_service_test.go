package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/metrics"
	"github.com/foodshare-next/internal/models"
	"github.com/foodshare-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// SQLite 单连接，事务串行执行
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func setupClaimServiceTest(t *testing.T) (*ClaimService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "claim_service_test")
	svc := NewClaimService(
		db,
		repository.NewListingRepository(db),
		repository.NewClaimRepository(db),
		NewCodeGenerator(nil),
		nil,
		metrics.NewClaimMetrics(prometheus.NewRegistry()),
	)
	return svc, db
}

func seedClaimUser(t *testing.T, db *gorm.DB, id uint, role string) {
	t.Helper()
	user := models.User{
		ID:           id,
		Email:        fmt.Sprintf("claim_user_%d@example.com", id),
		PasswordHash: "hash",
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
}

func seedClaimListing(t *testing.T, db *gorm.DB, donorID uint) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		DonorID:  donorID,
		Title:    "Surplus lasagna",
		Quantity: 3,
		Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		PickupAt: time.Now().Add(3 * time.Hour),
		Address:  "42 Harbour Rd",
		City:     "Springfield",
		Status:   constants.ListingStatusAvailable,
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("create listing failed: %v", err)
	}
	return listing
}

func reloadListing(t *testing.T, db *gorm.DB, id uint) models.Listing {
	t.Helper()
	var listing models.Listing
	if err := db.First(&listing, id).Error; err != nil {
		t.Fatalf("reload listing failed: %v", err)
	}
	return listing
}

func reloadClaim(t *testing.T, db *gorm.DB, id uint) models.Claim {
	t.Helper()
	var claim models.Claim
	if err := db.First(&claim, id).Error; err != nil {
		t.Fatalf("reload claim failed: %v", err)
	}
	return claim
}

func TestClaimListingReservesListing(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)

	result, err := svc.ClaimListing(context.Background(), listing.ID, 2, "  pick up at 6  ")
	if err != nil {
		t.Fatalf("claim listing failed: %v", err)
	}
	if result.ClaimID == 0 {
		t.Fatalf("expected claim id")
	}
	if !isValidConfirmationCode(result.ConfirmationCode) {
		t.Fatalf("unexpected confirmation code: %q", result.ConfirmationCode)
	}

	claim := reloadClaim(t, db, result.ClaimID)
	if claim.Status != constants.ClaimStatusPending || claim.Notes != "pick up at 6" {
		t.Fatalf("unexpected claim: %+v", claim)
	}
	if claim.ConfirmationCode != result.ConfirmationCode {
		t.Fatalf("stored code mismatch: %s vs %s", claim.ConfirmationCode, result.ConfirmationCode)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusReserved {
		t.Fatalf("expected listing reserved, got %s", got.Status)
	}

	var events []models.ClaimEvent
	db.Where("claim_id = ?", claim.ID).Find(&events)
	if len(events) != 1 || events[0].ListingTo != constants.ListingStatusReserved {
		t.Fatalf("expected one claim event, got %+v", events)
	}
}

func TestClaimListingNotFound(t *testing.T) {
	svc, _ := setupClaimServiceTest(t)
	_, err := svc.ClaimListing(context.Background(), 404, 2, "")
	if !errors.Is(err, ErrListingNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("not found must be distinguishable from conflict")
	}
}

func TestClaimListingRejectsOwnListing(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	if _, err := svc.ClaimListing(context.Background(), listing.ID, 1, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestClaimListingConcurrentExclusivity(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)

	const attempts = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(recipientID uint) {
			defer wg.Done()
			<-start
			_, err := svc.ClaimListing(context.Background(), listing.ID, recipientID, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}(uint(100 + i))
	}
	close(start)
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if successes != 1 || conflicts != attempts-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d/%d", attempts-1, successes, conflicts)
	}
	var claims int64
	db.Model(&models.Claim{}).Where("listing_id = ?", listing.ID).Count(&claims)
	if claims != 1 {
		t.Fatalf("expected exactly one claim row, got %d", claims)
	}
}

func TestClaimListingRejectsDuplicate(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	ctx := context.Background()

	if _, err := svc.ClaimListing(ctx, listing.ID, 2, ""); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	_, err := svc.ClaimListing(ctx, listing.ID, 2, "")
	if !errors.Is(err, ErrClaimDuplicate) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}
	_, err = svc.ClaimListing(ctx, listing.ID, 3, "")
	if !errors.Is(err, ErrListingUnavailable) {
		t.Fatalf("expected unavailable conflict for other recipient, got %v", err)
	}
}

func TestUpdateClaimStatusCompletedRoundTrip(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	ctx := context.Background()
	result, err := svc.ClaimListing(ctx, listing.ID, 2, "")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	claim, err := svc.UpdateClaimStatus(ctx, UpdateClaimStatusInput{
		ClaimID: result.ClaimID,
		ActorID: 1,
		Status:  constants.ClaimStatusCompleted,
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if claim.Status != constants.ClaimStatusCompleted || claim.VerifiedAt == nil {
		t.Fatalf("unexpected returned claim: %+v", claim)
	}

	stored := reloadClaim(t, db, result.ClaimID)
	if stored.Status != constants.ClaimStatusCompleted || stored.VerifiedAt == nil {
		t.Fatalf("unexpected stored claim: %+v", stored)
	}
	if stored.CompletedBy != constants.ClaimCompletedByDonor {
		t.Fatalf("expected completed_by donor, got %s", stored.CompletedBy)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusClaimed {
		t.Fatalf("expected listing claimed, got %s", got.Status)
	}
}

func TestUpdateClaimStatusConfirmedKeepsListingReserved(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	ctx := context.Background()
	result, _ := svc.ClaimListing(ctx, listing.ID, 2, "")

	if _, err := svc.UpdateClaimStatus(ctx, UpdateClaimStatusInput{ClaimID: result.ClaimID, ActorID: 1, Status: "CONFIRMED"}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if got := reloadClaim(t, db, result.ClaimID); got.Status != constants.ClaimStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusReserved {
		t.Fatalf("expected listing still reserved, got %s", got.Status)
	}

	// 重复设置同一状态为幂等操作
	if _, err := svc.UpdateClaimStatus(ctx, UpdateClaimStatusInput{ClaimID: result.ClaimID, ActorID: 1, Status: constants.ClaimStatusConfirmed}); err != nil {
		t.Fatalf("idempotent confirm failed: %v", err)
	}
	var events int64
	db.Model(&models.ClaimEvent{}).Where("claim_id = ?", result.ClaimID).Count(&events)
	if events != 2 {
		t.Fatalf("idempotent update must not write events, got %d", events)
	}
}

func TestUpdateClaimStatusForbiddenForNonDonor(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	ctx := context.Background()
	result, _ := svc.ClaimListing(ctx, listing.ID, 2, "")

	_, err := svc.UpdateClaimStatus(ctx, UpdateClaimStatusInput{ClaimID: result.ClaimID, ActorID: 2, Status: constants.ClaimStatusCompleted})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if got := reloadClaim(t, db, result.ClaimID); got.Status != constants.ClaimStatusPending {
		t.Fatalf("claim must be unchanged, got %s", got.Status)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusReserved {
		t.Fatalf("listing must be unchanged, got %s", got.Status)
	}
}

func TestUpdateClaimStatusVerificationCode(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	ctx := context.Background()
	result, _ := svc.ClaimListing(ctx, listing.ID, 2, "")

	wrong := "000000"
	if result.ConfirmationCode == wrong {
		wrong = "111111"
	}
	_, err := svc.UpdateClaimStatus(ctx, UpdateClaimStatusInput{
		ClaimID:          result.ClaimID,
		ActorID:          1,
		Status:           constants.ClaimStatusCompleted,
		VerificationCode: wrong,
	})
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected invalid code, got %v", err)
	}
	if got := reloadClaim(t, db, result.ClaimID); got.Status != constants.ClaimStatusPending || got.VerifiedAt != nil {
		t.Fatalf("claim must be unchanged after wrong code: %+v", got)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusReserved {
		t.Fatalf("listing must be unchanged after wrong code, got %s", got.Status)
	}

	if _, err := svc.UpdateClaimStatus(ctx, UpdateClaimStatusInput{
		ClaimID:          result.ClaimID,
		ActorID:          1,
		Status:           constants.ClaimStatusCompleted,
		VerificationCode: " " + result.ConfirmationCode + " ",
	}); err != nil {
		t.Fatalf("complete with correct code failed: %v", err)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusClaimed {
		t.Fatalf("expected claimed listing, got %s", got.Status)
	}
}

func TestUpdateClaimStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := setupClaimServiceTest(t)
	_, err := svc.UpdateClaimStatus(context.Background(), UpdateClaimStatusInput{ClaimID: 1, ActorID: 1, Status: "shipped"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateClaimStatusNotFound(t *testing.T) {
	svc, _ := setupClaimServiceTest(t)
	_, err := svc.UpdateClaimStatus(context.Background(), UpdateClaimStatusInput{ClaimID: 99, ActorID: 1, Status: constants.ClaimStatusCancelled})
	if !errors.Is(err, ErrClaimNotFound) {
		t.Fatalf("expected claim not found, got %v", err)
	}
}

func TestTerminalClaimRejectsFurtherTransitions(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	ctx := context.Background()
	result, _ := svc.ClaimListing(ctx, listing.ID, 2, "")
	if _, err := svc.UpdateClaimStatus(ctx, UpdateClaimStatusInput{ClaimID: result.ClaimID, ActorID: 1, Status: constants.ClaimStatusCompleted}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	_, err := svc.UpdateClaimStatus(ctx, UpdateClaimStatusInput{ClaimID: result.ClaimID, ActorID: 1, Status: constants.ClaimStatusCancelled})
	if !errors.Is(err, ErrClaimStatusTransition) {
		t.Fatalf("expected transition conflict, got %v", err)
	}
	if _, err := svc.CancelReservation(ctx, result.ClaimID, 2, listing.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("recipient cancel after completion should conflict, got %v", err)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusClaimed {
		t.Fatalf("listing must stay claimed, got %s", got.Status)
	}
}

func TestCancelReservationRestoresAvailability(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	ctx := context.Background()
	result, _ := svc.ClaimListing(ctx, listing.ID, 2, "")

	claim, err := svc.CancelReservation(ctx, result.ClaimID, 2, listing.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if claim.Status != constants.ClaimStatusCancelled || claim.CancelledAt == nil {
		t.Fatalf("unexpected claim after cancel: %+v", claim)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusAvailable {
		t.Fatalf("expected available listing, got %s", got.Status)
	}

	if _, err := svc.ClaimListing(ctx, listing.ID, 3, ""); err != nil {
		t.Fatalf("new recipient should be able to claim again: %v", err)
	}
}

func TestCancelReservationOwnership(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	other := seedClaimListing(t, db, 1)
	ctx := context.Background()
	result, _ := svc.ClaimListing(ctx, listing.ID, 2, "")

	if _, err := svc.CancelReservation(ctx, result.ClaimID, 3, listing.ID); !errors.Is(err, ErrNotClaimRecipient) {
		t.Fatalf("expected forbidden for other recipient, got %v", err)
	}
	if _, err := svc.CancelReservation(ctx, result.ClaimID, 2, other.ID); !errors.Is(err, ErrClaimNotFound) {
		t.Fatalf("expected not found for mismatched listing, got %v", err)
	}
	if _, err := svc.CancelReservation(ctx, 999, 2, listing.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing claim, got %v", err)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusReserved {
		t.Fatalf("listing must stay reserved, got %s", got.Status)
	}
}

func TestCompletePickupFlipsListingToClaimed(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	ctx := context.Background()
	result, _ := svc.ClaimListing(ctx, listing.ID, 2, "")

	if _, err := svc.CompletePickup(ctx, result.ClaimID, 3); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for other recipient, got %v", err)
	}
	claim, err := svc.CompletePickup(ctx, result.ClaimID, 2)
	if err != nil {
		t.Fatalf("complete pickup failed: %v", err)
	}
	if claim.Status != constants.ClaimStatusCompleted || claim.VerifiedAt == nil {
		t.Fatalf("unexpected claim: %+v", claim)
	}
	if claim.CompletedBy != constants.ClaimCompletedByRecipient {
		t.Fatalf("expected completed_by recipient, got %s", claim.CompletedBy)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusClaimed {
		t.Fatalf("expected claimed listing, got %s", got.Status)
	}
}

func TestEnsureConfirmationCodesBackfillsOnce(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	otherDonorListing := seedClaimListing(t, db, 5)
	legacy := &models.Claim{ListingID: listing.ID, RecipientID: 2, Status: constants.ClaimStatusCompleted, ClaimedAt: time.Now()}
	foreign := &models.Claim{ListingID: otherDonorListing.ID, RecipientID: 2, Status: constants.ClaimStatusCompleted, ClaimedAt: time.Now()}
	for _, c := range []*models.Claim{legacy, foreign} {
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("create legacy claim failed: %v", err)
		}
	}

	filled, err := svc.EnsureConfirmationCodes(context.Background(), 1)
	if err != nil {
		t.Fatalf("ensure codes failed: %v", err)
	}
	if filled != 1 {
		t.Fatalf("expected 1 backfilled code, got %d", filled)
	}
	got := reloadClaim(t, db, legacy.ID)
	if !isValidConfirmationCode(got.ConfirmationCode) {
		t.Fatalf("invalid backfilled code: %q", got.ConfirmationCode)
	}
	if other := reloadClaim(t, db, foreign.ID); other.ConfirmationCode != "" {
		t.Fatalf("other donor's claim must not be touched")
	}

	again, err := svc.EnsureConfirmationCodes(context.Background(), 1)
	if err != nil || again != 0 {
		t.Fatalf("second run should be a no-op, got %d err=%v", again, err)
	}
	if reloadClaim(t, db, legacy.ID).ConfirmationCode != got.ConfirmationCode {
		t.Fatalf("existing code must not be replaced")
	}
}

func TestClaimLifecycleScenario(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	seedClaimUser(t, db, 1, constants.RoleDonor)
	seedClaimUser(t, db, 2, constants.RoleRecipient)
	seedClaimUser(t, db, 3, constants.RoleRecipient)
	listing := seedClaimListing(t, db, 1)
	ctx := context.Background()

	first, err := svc.ClaimListing(ctx, listing.ID, 2, "")
	if err != nil {
		t.Fatalf("recipient A claim failed: %v", err)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusReserved {
		t.Fatalf("expected reserved, got %s", got.Status)
	}
	if _, err := svc.ClaimListing(ctx, listing.ID, 3, ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("recipient B should conflict, got %v", err)
	}
	if _, err := svc.UpdateClaimStatus(ctx, UpdateClaimStatusInput{ClaimID: first.ClaimID, ActorID: 1, Status: constants.ClaimStatusCompleted}); err != nil {
		t.Fatalf("donor completion failed: %v", err)
	}
	if got := reloadListing(t, db, listing.ID); got.Status != constants.ListingStatusClaimed {
		t.Fatalf("expected claimed, got %s", got.Status)
	}
	if got := reloadClaim(t, db, first.ClaimID); got.Status != constants.ClaimStatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if _, err := svc.ClaimListing(ctx, listing.ID, 2, ""); !errors.Is(err, ErrListingUnavailable) {
		t.Fatalf("re-claim of claimed listing should conflict, got %v", err)
	}
}

func TestClaimReadSideOwnership(t *testing.T) {
	svc, db := setupClaimServiceTest(t)
	listing := seedClaimListing(t, db, 1)
	result, _ := svc.ClaimListing(context.Background(), listing.ID, 2, "")

	if _, err := svc.GetClaimForRecipient(result.ClaimID, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other recipient must not see claim, got %v", err)
	}
	if _, err := svc.GetClaimForDonor(result.ClaimID, 9); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other donor must be forbidden, got %v", err)
	}
	claims, total, err := svc.ListRecipientClaims(repository.ClaimListFilter{RecipientID: 2, Page: 1, PageSize: 10})
	if err != nil || total != 1 || len(claims) != 1 {
		t.Fatalf("unexpected recipient claims: total=%d err=%v", total, err)
	}
	events, err := svc.ListClaimEvents(result.ClaimID, 1)
	if err != nil || len(events) != 1 {
		t.Fatalf("donor should read events, got %d err=%v", len(events), err)
	}
	if _, err := svc.ListClaimEvents(result.ClaimID, 7); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger must be forbidden, got %v", err)
	}
}
