package models

import "time"

// AdminAuditLog 管理端操作审计日志
// 记录权限策略变更与内容治理操作，支持按操作人、动作与时间范围检索。
type AdminAuditLog struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	OperatorID    uint      `gorm:"index;not null" json:"operator_id"`
	OperatorEmail string    `gorm:"type:varchar(255);index;not null;default:''" json:"operator_email"`
	Action        string    `gorm:"type:varchar(64);index;not null" json:"action"`
	TargetType    string    `gorm:"type:varchar(32);index;not null;default:''" json:"target_type"`
	TargetID      uint      `gorm:"index;not null;default:0" json:"target_id"`
	Role          string    `gorm:"type:varchar(120);not null;default:''" json:"role"`
	Object        string    `gorm:"type:varchar(255);not null;default:''" json:"object"`
	Method        string    `gorm:"type:varchar(20);not null;default:''" json:"method"`
	RequestID     string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	DetailJSON    JSON      `gorm:"type:text" json:"detail"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
