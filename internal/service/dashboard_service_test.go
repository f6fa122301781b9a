package service

import (
	"context"
	"errors"
	"testing"

	"github.com/foodshare-next/internal/cache"
	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/repository"
)

func TestDashboardOverviewAggregates(t *testing.T) {
	reviewSvc, claimSvc, db := setupReviewServiceTest(t)
	ctx := context.Background()

	done := completeClaimFor(t, claimSvc, seedClaimListing(t, db, 1).ID, 2)
	if _, _, err := reviewSvc.CreateReview(ctx, CreateReviewInput{ClaimID: done, RecipientID: 2, Rating: 4}); err != nil {
		t.Fatalf("review failed: %v", err)
	}
	cancelled, err := claimSvc.ClaimListing(ctx, seedClaimListing(t, db, 1).ID, 3, "")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if _, err := claimSvc.CancelReservation(ctx, cancelled.ClaimID, 3, 0); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	svc := NewDashboardService(repository.NewDashboardRepository(db), repository.NewUserRepository(db), cache.NewStore(nil))
	overview, err := svc.GetOverview(ctx, false)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.ListingsByStatus[constants.ListingStatusClaimed] != 1 || overview.ListingsByStatus[constants.ListingStatusAvailable] != 1 {
		t.Fatalf("unexpected listing counts: %+v", overview.ListingsByStatus)
	}
	if overview.ListingsByStatus[constants.ListingStatusExpired] != 0 {
		t.Fatalf("missing status keys should be zero: %+v", overview.ListingsByStatus)
	}
	if overview.ClaimsByStatus[constants.ClaimStatusCompleted] != 1 || overview.ClaimsByStatus[constants.ClaimStatusCancelled] != 1 {
		t.Fatalf("unexpected claim counts: %+v", overview.ClaimsByStatus)
	}
	if overview.ClaimCompletionPct != "50.00" {
		t.Fatalf("unexpected completion rate: %s", overview.ClaimCompletionPct)
	}
	if overview.UsersByRole[constants.RoleRecipient] != 2 || overview.UsersByRole[constants.RoleDonor] != 1 {
		t.Fatalf("unexpected user counts: %+v", overview.UsersByRole)
	}
	if len(overview.TopDonors) != 1 || overview.TopDonors[0].DonorID != 1 || overview.TopDonors[0].CompletedClaims != 1 {
		t.Fatalf("unexpected top donors: %+v", overview.TopDonors)
	}
}

func TestContactSubmitAndHandle(t *testing.T) {
	db := openServiceTestDB(t, "contact_service_test")
	svc := NewContactService(repository.NewContactMessageRepository(db))

	if _, err := svc.Submit(ContactInput{Name: "Ann", Email: "bad", Message: "hi"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	msg, err := svc.Submit(ContactInput{Name: " Ann ", Email: "Ann@Example.com", Message: " Can I volunteer? "})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if msg.Status != constants.ContactStatusNew || msg.Email != "ann@example.com" || msg.Message != "Can I volunteer?" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if err := svc.MarkHandled(msg.ID); err != nil {
		t.Fatalf("mark handled failed: %v", err)
	}
	if err := svc.MarkHandled(404); !errors.Is(err, ErrContactMessageNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	items, total, err := svc.List(repository.ContactMessageListFilter{Status: constants.ContactStatusHandled, Page: 1, PageSize: 10})
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("unexpected handled list: total=%d err=%v", total, err)
	}
}
