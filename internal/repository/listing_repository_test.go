package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		_ = models.CloseDB(db)
	})
	return db
}

func createTestListing(t *testing.T, db *gorm.DB, donorID uint, status string) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		DonorID:  donorID,
		Title:    "Veggie boxes",
		Quantity: 3,
		Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		PickupAt: time.Now().Add(2 * time.Hour),
		Address:  "1 Market St",
		City:     "Springfield",
		Status:   status,
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("create listing failed: %v", err)
	}
	return listing
}

func TestListingTransitionStatusOnlyFromExpected(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewListingRepository(db)
	listing := createTestListing(t, db, 1, constants.ListingStatusAvailable)

	affected, err := repo.TransitionStatus(listing.ID, []string{constants.ListingStatusAvailable}, constants.ListingStatusReserved)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected first transition to affect 1 row, got %d", affected)
	}

	affected, err = repo.TransitionStatus(listing.ID, []string{constants.ListingStatusAvailable}, constants.ListingStatusReserved)
	if err != nil {
		t.Fatalf("second transition failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected second transition to affect 0 rows, got %d", affected)
	}

	got, err := repo.GetByID(listing.ID)
	if err != nil || got == nil {
		t.Fatalf("reload listing failed: %v", err)
	}
	if got.Status != constants.ListingStatusReserved {
		t.Fatalf("expected reserved, got %s", got.Status)
	}
}

func TestListingUpdateFieldsIgnoresStatus(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewListingRepository(db)
	listing := createTestListing(t, db, 1, constants.ListingStatusReserved)

	if err := repo.UpdateFields(listing.ID, map[string]interface{}{
		"title":  "Soup",
		"status": constants.ListingStatusAvailable,
	}); err != nil {
		t.Fatalf("update fields failed: %v", err)
	}
	got, _ := repo.GetByID(listing.ID)
	if got.Title != "Soup" {
		t.Fatalf("expected title updated, got %s", got.Title)
	}
	if got.Status != constants.ListingStatusReserved {
		t.Fatalf("status must not change through UpdateFields, got %s", got.Status)
	}
}

func TestListingExpireAvailableBeforeSkipsReserved(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewListingRepository(db)
	past := time.Now().Add(-time.Hour)

	available := createTestListing(t, db, 1, constants.ListingStatusAvailable)
	reserved := createTestListing(t, db, 1, constants.ListingStatusReserved)
	fresh := createTestListing(t, db, 1, constants.ListingStatusAvailable)
	future := time.Now().Add(time.Hour)
	db.Model(&models.Listing{}).Where("id IN ?", []uint{available.ID, reserved.ID}).Update("expires_at", past)
	db.Model(&models.Listing{}).Where("id = ?", fresh.ID).Update("expires_at", future)

	affected, err := repo.ExpireAvailableBefore(time.Now(), 100)
	if err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 expired listing, got %d", affected)
	}

	for id, want := range map[uint]string{
		available.ID: constants.ListingStatusExpired,
		reserved.ID:  constants.ListingStatusReserved,
		fresh.ID:     constants.ListingStatusAvailable,
	} {
		got, _ := repo.GetByID(id)
		if got.Status != want {
			t.Fatalf("listing %d: expected %s, got %s", id, want, got.Status)
		}
	}
}

func TestListingDeleteWithClaimsCascades(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewListingRepository(db)
	claimRepo := NewClaimRepository(db)
	listing := createTestListing(t, db, 1, constants.ListingStatusReserved)
	claim := &models.Claim{ListingID: listing.ID, RecipientID: 2, Status: constants.ClaimStatusPending, ClaimedAt: time.Now()}
	if err := claimRepo.Create(claim); err != nil {
		t.Fatalf("create claim failed: %v", err)
	}

	if err := repo.DeleteWithClaims(listing.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got, _ := repo.GetByID(listing.ID); got != nil {
		t.Fatalf("listing should be deleted")
	}
	if got, _ := claimRepo.GetByID(claim.ID); got != nil {
		t.Fatalf("claim should be deleted with listing")
	}
}

func TestListingListSearchMatchesTitleAndDescription(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewListingRepository(db)
	bread := createTestListing(t, db, 1, constants.ListingStatusAvailable)
	if err := db.Model(bread).Updates(map[string]interface{}{"title": "Rye bread", "description": "50% off rye"}).Error; err != nil {
		t.Fatalf("update listing failed: %v", err)
	}
	createTestListing(t, db, 1, constants.ListingStatusAvailable)

	items, total, err := repo.List(ListingListFilter{Search: "rye", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != bread.ID {
		t.Fatalf("expected only the bread listing, got total=%d items=%+v", total, items)
	}

	_, total, err = repo.List(ListingListFilter{Search: "50%", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list with wildcard failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("literal percent should match one listing, got %d", total)
	}
}

func TestLoginAndAuditLogRepositories(t *testing.T) {
	db := setupRepositoryTestDB(t)
	loginRepo := NewUserLoginLogRepository(db)
	auditRepo := NewAuditLogRepository(db)

	for _, item := range []models.UserLoginLog{
		{UserID: 1, Email: "a@example.com", Status: constants.LoginLogStatusSuccess},
		{UserID: 1, Email: "a@example.com", Status: constants.LoginLogStatusFailed, FailReason: constants.LoginLogFailReasonInvalidCredentials},
		{UserID: 2, Email: "b@example.com", Status: constants.LoginLogStatusSuccess},
	} {
		item := item
		if err := loginRepo.Create(&item); err != nil {
			t.Fatalf("create login log failed: %v", err)
		}
	}
	logs, total, err := loginRepo.List(UserLoginLogListFilter{UserID: 1, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list login logs failed: %v", err)
	}
	if total != 2 || len(logs) != 2 || logs[0].Status != constants.LoginLogStatusFailed {
		t.Fatalf("unexpected login logs: total=%d logs=%+v", total, logs)
	}

	if err := auditRepo.Create(&models.AdminAuditLog{
		OperatorID: 9,
		Action:     constants.AuditActionUserStatus,
		TargetType: "user",
		TargetID:   2,
		DetailJSON: models.JSON{"status": "disabled"},
	}); err != nil {
		t.Fatalf("create audit log failed: %v", err)
	}
	audits, total, err := auditRepo.List(AuditLogListFilter{Action: constants.AuditActionUserStatus})
	if err != nil {
		t.Fatalf("list audit logs failed: %v", err)
	}
	if total != 1 || audits[0].DetailJSON["status"] != "disabled" {
		t.Fatalf("unexpected audit logs: %+v", audits)
	}
}
