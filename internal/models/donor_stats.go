package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonorStats 商家评分汇总
type DonorStats struct {
	DonorID         uint            `gorm:"primarykey;autoIncrement:false" json:"donor_id"`
	ReviewCount     int64           `gorm:"not null;default:0" json:"review_count"`
	RatingSum       int64           `gorm:"not null;default:0" json:"rating_sum"`
	AverageRating   decimal.Decimal `gorm:"type:decimal(4,2);not null;default:0" json:"average_rating"`
	CompletedClaims int64           `gorm:"not null;default:0" json:"completed_claims"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName 指定表名
func (DonorStats) TableName() string {
	return "donor_stats"
}
