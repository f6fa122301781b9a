package main

import (
	"errors"
	"time"

	"github.com/foodshare-next/internal/app"
	"github.com/foodshare-next/internal/config"
	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "foodshare-demo"

type seedListing struct {
	Title       string
	Description string
	Quantity    int
	Price       string
	City        string
	Address     string
	PickupIn    time.Duration
	ExpiresIn   time.Duration
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		stdLog.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = models.CloseDB(db)
	}()

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash demo password: %v", err)
	}

	// 添加演示账号
	users := []models.User{
		{Email: "bakery@foodshare.local", DisplayName: "Corner Bakery", Role: constants.RoleDonor, City: "Springfield", Address: "12 Market St"},
		{Email: "deli@foodshare.local", DisplayName: "Harbour Deli", Role: constants.RoleDonor, City: "Shelbyville", Address: "3 Pier Rd"},
		{Email: "alex@foodshare.local", DisplayName: "Alex", Role: constants.RoleRecipient, City: "Springfield"},
		{Email: "sam@foodshare.local", DisplayName: "Sam", Role: constants.RoleRecipient, City: "Shelbyville"},
	}
	userIDs := map[string]uint{}
	for _, user := range users {
		user.PasswordHash = string(hash)
		user.Status = constants.UserStatusActive
		id, created, err := firstOrCreateUser(db, user)
		if err != nil {
			stdLog.Printf("Failed to create user %s: %v", user.Email, err)
			continue
		}
		userIDs[user.Email] = id
		if created {
			stdLog.Printf("Created user: %s (%s)", user.Email, user.Role)
		} else {
			stdLog.Printf("User already exists: %s", user.Email)
		}
	}

	// 添加演示餐品
	listingsByDonor := map[string][]seedListing{
		"bakery@foodshare.local": {
			{Title: "Sourdough loaves", Description: "Baked this morning, six loaves left", Quantity: 6, Price: "2.50", PickupIn: 2 * time.Hour, ExpiresIn: 6 * time.Hour},
			{Title: "Assorted pastries box", Description: "Croissants and danishes", Quantity: 4, Price: "3.00", PickupIn: 3 * time.Hour, ExpiresIn: 5 * time.Hour},
		},
		"deli@foodshare.local": {
			{Title: "Vegetable soup (1L)", Description: "Vegan, contains celery", Quantity: 8, Price: "0", PickupIn: time.Hour, ExpiresIn: 4 * time.Hour},
			{Title: "Sandwich platter", Description: "Mixed fillings, serves four", Quantity: 2, Price: "5.00", PickupIn: 90 * time.Minute, ExpiresIn: 3 * time.Hour},
		},
	}
	now := time.Now()
	for email, items := range listingsByDonor {
		donorID, ok := userIDs[email]
		if !ok {
			stdLog.Printf("Skip listings for missing donor: %s", email)
			continue
		}
		var donor models.User
		if err := db.First(&donor, donorID).Error; err != nil {
			stdLog.Printf("Failed to load donor %s: %v", email, err)
			continue
		}
		for _, item := range items {
			var count int64
			if err := db.Model(&models.Listing{}).Where("donor_id = ? AND title = ?", donorID, item.Title).Count(&count).Error; err != nil {
				stdLog.Printf("Failed to check listing %s: %v", item.Title, err)
				continue
			}
			if count > 0 {
				stdLog.Printf("Listing already exists: %s", item.Title)
				continue
			}
			price, err := decimal.NewFromString(item.Price)
			if err != nil {
				stdLog.Printf("Invalid price for %s: %v", item.Title, err)
				continue
			}
			expiresAt := now.Add(item.ExpiresIn)
			listing := models.Listing{
				DonorID:     donorID,
				Title:       item.Title,
				Description: item.Description,
				Quantity:    item.Quantity,
				Price:       models.NewMoneyFromDecimal(price),
				PickupAt:    now.Add(item.PickupIn),
				ExpiresAt:   &expiresAt,
				Address:     donor.Address,
				City:        donor.City,
				Status:      constants.ListingStatusAvailable,
			}
			if err := db.Create(&listing).Error; err != nil {
				stdLog.Printf("Failed to create listing %s: %v", item.Title, err)
				continue
			}
			stdLog.Printf("Created listing: %s (id=%d)", listing.Title, listing.ID)
		}
	}

	stdLog.Printf("Seed finished, demo password: %s", demoPassword)
}

func firstOrCreateUser(db *gorm.DB, user models.User) (uint, bool, error) {
	var existing models.User
	err := db.Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}
	if err := db.Create(&user).Error; err != nil {
		return 0, false, err
	}
	return user.ID, true, nil
}
