//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.ClaimEvent{},
		&models.Claim{},
		&models.Listing{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(&models.Listing{}, &models.Claim{}, &models.ClaimEvent{}); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		_ = models.CloseDB(db)
	})
	return db
}

func TestPostgresReserveUnderRowLockIsExclusive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	listing := &models.Listing{
		DonorID:  1,
		Title:    "pg listing",
		Quantity: 2,
		PickupAt: time.Now().Add(time.Hour),
		Status:   constants.ListingStatusAvailable,
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("create listing failed: %v", err)
	}

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(recipient uint) {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				repo := NewListingRepository(db).WithTx(tx)
				locked, err := repo.GetByIDForUpdate(listing.ID)
				if err != nil || locked == nil || locked.Status != constants.ListingStatusAvailable {
					return err
				}
				affected, err := repo.TransitionStatus(listing.ID, []string{constants.ListingStatusAvailable}, constants.ListingStatusReserved)
				if err != nil || affected == 0 {
					return err
				}
				mu.Lock()
				winners++
				mu.Unlock()
				return NewClaimRepository(db).WithTx(tx).Create(&models.Claim{
					ListingID:   listing.ID,
					RecipientID: recipient,
					Status:      constants.ClaimStatusPending,
					ClaimedAt:   time.Now(),
				})
			})
			if err != nil {
				t.Errorf("transaction failed: %v", err)
			}
		}(uint(100 + i))
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", winners)
	}
	var claims int64
	db.Model(&models.Claim{}).Where("listing_id = ?", listing.ID).Count(&claims)
	if claims != 1 {
		t.Fatalf("expected exactly 1 claim row, got %d", claims)
	}
}
