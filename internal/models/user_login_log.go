package models

import "time"

// UserLoginLog 登录尝试记录，成功与失败都会写入
type UserLoginLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`                          // 主键
	UserID     uint      `gorm:"index" json:"user_id"`                          // 用户ID（未匹配到账号时为0）
	Email      string    `gorm:"index;not null" json:"email"`                   // 登录邮箱
	Status     string    `gorm:"type:varchar(16);index;not null" json:"status"` // success / failed
	FailReason string    `gorm:"type:varchar(32);index" json:"fail_reason"`     // 失败原因
	ClientIP   string    `gorm:"type:varchar(64);index" json:"client_ip"`       // 客户端IP
	UserAgent  string    `gorm:"type:text" json:"user_agent"`                   // 客户端UA
	RequestID  string    `gorm:"type:varchar(64);index" json:"request_id"`      // 请求追踪ID
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                       // 记录时间
}

// TableName 指定表名
func (UserLoginLog) TableName() string {
	return "user_login_logs"
}
