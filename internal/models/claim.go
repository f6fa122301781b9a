package models

import (
	"time"

	"github.com/foodshare-next/internal/constants"
)

// Claim 认领表
type Claim struct {
	ID               uint       `gorm:"primarykey" json:"id"`                                                   // 主键
	ListingID        uint       `gorm:"index:idx_claim_listing_recipient;not null" json:"listing_id"`           // 餐品ID
	RecipientID      uint       `gorm:"index:idx_claim_listing_recipient;index;not null" json:"recipient_id"`   // 领取人ID
	Status           string     `gorm:"type:varchar(20);index;not null" json:"status"`                          // 认领状态
	Notes            string     `gorm:"type:text" json:"notes"`                                                 // 备注
	ConfirmationCode string     `gorm:"type:varchar(16);index;not null;default:''" json:"confirmation_code"`    // 取件码
	ClaimedAt        time.Time  `gorm:"index" json:"claimed_at"`                                                // 认领时间
	VerifiedAt       *time.Time `json:"verified_at"`                                                            // 核销时间
	CancelledAt      *time.Time `json:"cancelled_at"`                                                           // 取消时间
	CompletedBy      string     `gorm:"type:varchar(20);default:''" json:"completed_by,omitempty"`              // 完成方
	Reviewed         bool       `gorm:"not null;default:false" json:"reviewed"`                                 // 是否已评价
	CreatedAt        time.Time  `json:"created_at"`                                                             // 创建时间
	UpdatedAt        time.Time  `json:"updated_at"`                                                             // 更新时间

	Listing *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"` // 餐品
}

// TableName 指定表名
func (Claim) TableName() string {
	return "claims"
}

// IsActive 是否处于进行中（pending / confirmed）
func (c Claim) IsActive() bool {
	return c.Status == constants.ClaimStatusPending || c.Status == constants.ClaimStatusConfirmed
}

// IsTerminal 是否已结束
func (c Claim) IsTerminal() bool {
	return c.Status == constants.ClaimStatusCompleted || c.Status == constants.ClaimStatusCancelled
}
