package models

import "time"

// Review 领取评价表
type Review struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ClaimID     uint      `gorm:"uniqueIndex;not null" json:"claim_id"`
	ListingID   uint      `gorm:"index;not null" json:"listing_id"`
	DonorID     uint      `gorm:"index;not null" json:"donor_id"`
	RecipientID uint      `gorm:"index;not null" json:"recipient_id"`
	Rating      int       `gorm:"not null" json:"rating"`
	Comment     string    `gorm:"type:text" json:"comment"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
