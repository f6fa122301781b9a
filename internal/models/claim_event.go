package models

import "time"

// ClaimEvent 认领状态流转记录
// 说明：与状态变更在同一事务内写入，便于追溯餐品与认领的联动。
type ClaimEvent struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ClaimID     uint      `gorm:"index;not null" json:"claim_id"`
	ListingID   uint      `gorm:"index;not null" json:"listing_id"`
	ActorID     uint      `gorm:"index;not null" json:"actor_id"`
	Action      string    `gorm:"type:varchar(40);not null" json:"action"`
	FromStatus  string    `gorm:"type:varchar(20);not null;default:''" json:"from_status"`
	ToStatus    string    `gorm:"type:varchar(20);not null" json:"to_status"`
	ListingFrom string    `gorm:"type:varchar(20);not null;default:''" json:"listing_from"`
	ListingTo   string    `gorm:"type:varchar(20);not null;default:''" json:"listing_to"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (ClaimEvent) TableName() string {
	return "claim_events"
}
