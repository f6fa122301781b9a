package repository

import (
	"testing"
	"time"

	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/models"
)

func TestClaimSetConfirmationCodeOnlyWhenEmpty(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewClaimRepository(db)
	listing := createTestListing(t, db, 1, constants.ListingStatusReserved)
	claim := &models.Claim{ListingID: listing.ID, RecipientID: 2, Status: constants.ClaimStatusPending, ClaimedAt: time.Now()}
	if err := repo.Create(claim); err != nil {
		t.Fatalf("create claim failed: %v", err)
	}

	missing, err := repo.ListMissingCodeByDonor(1)
	if err != nil {
		t.Fatalf("list missing failed: %v", err)
	}
	if len(missing) != 1 || missing[0].ID != claim.ID {
		t.Fatalf("expected claim without code to be listed, got %+v", missing)
	}

	if affected, err := repo.SetConfirmationCode(claim.ID, "ABC123"); err != nil || affected != 1 {
		t.Fatalf("first set: affected=%d err=%v", affected, err)
	}
	if affected, err := repo.SetConfirmationCode(claim.ID, "ZZZ999"); err != nil || affected != 0 {
		t.Fatalf("second set must not overwrite: affected=%d err=%v", affected, err)
	}
	got, _ := repo.GetByID(claim.ID)
	if got.ConfirmationCode != "ABC123" {
		t.Fatalf("unexpected code: %s", got.ConfirmationCode)
	}
}

func TestClaimListByDonorJoinsListings(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewClaimRepository(db)
	mine := createTestListing(t, db, 1, constants.ListingStatusReserved)
	other := createTestListing(t, db, 9, constants.ListingStatusReserved)
	for _, listingID := range []uint{mine.ID, other.ID} {
		if err := repo.Create(&models.Claim{ListingID: listingID, RecipientID: 2, Status: constants.ClaimStatusPending, ClaimedAt: time.Now()}); err != nil {
			t.Fatalf("create claim failed: %v", err)
		}
	}

	claims, total, err := repo.ListByDonor(ClaimListFilter{DonorID: 1, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list by donor failed: %v", err)
	}
	if total != 1 || len(claims) != 1 {
		t.Fatalf("expected 1 donor claim, got total=%d len=%d", total, len(claims))
	}
	if claims[0].Listing == nil || claims[0].Listing.ID != mine.ID {
		t.Fatalf("expected listing preloaded")
	}
}

func TestClaimFindActiveIgnoresTerminal(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewClaimRepository(db)
	listing := createTestListing(t, db, 1, constants.ListingStatusAvailable)
	if err := repo.Create(&models.Claim{ListingID: listing.ID, RecipientID: 2, Status: constants.ClaimStatusCancelled, ClaimedAt: time.Now()}); err != nil {
		t.Fatalf("create claim failed: %v", err)
	}

	active, err := repo.FindActiveByListingAndRecipient(listing.ID, 2)
	if err != nil {
		t.Fatalf("find active failed: %v", err)
	}
	if active != nil {
		t.Fatalf("cancelled claim must not count as active")
	}
	count, err := repo.CountActiveByListing(listing.ID)
	if err != nil || count != 0 {
		t.Fatalf("expected 0 active claims, got %d err=%v", count, err)
	}
}
