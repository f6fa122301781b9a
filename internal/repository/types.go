package repository

import "time"

// ListingListFilter 查询餐品列表的过滤条件
type ListingListFilter struct {
	Page     int
	PageSize int
	DonorID  uint
	Status   string
	City     string
	Search   string
}

// ClaimListFilter 查询认领列表的过滤条件
type ClaimListFilter struct {
	Page        int
	PageSize    int
	DonorID     uint
	RecipientID uint
	ListingID   uint
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
	Status   string
}

// ContactMessageListFilter 查询留言列表的过滤条件
type ContactMessageListFilter struct {
	Page     int
	PageSize int
	Status   string
}

// UserLoginLogListFilter 查询登录日志的过滤条件
type UserLoginLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Email       string
	Status      string
	FailReason  string
	ClientIP    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AuditLogListFilter 查询审计日志的过滤条件
type AuditLogListFilter struct {
	Page        int
	PageSize    int
	OperatorID  uint
	Action      string
	TargetType  string
	TargetID    uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
