package constants

// 餐品状态常量
const (
	ListingStatusAvailable = "available"
	ListingStatusReserved  = "reserved"
	ListingStatusClaimed   = "claimed"
	ListingStatusExpired   = "expired"
)

// 认领状态常量
const (
	ClaimStatusPending   = "pending"
	ClaimStatusConfirmed = "confirmed"
	ClaimStatusCompleted = "completed"
	ClaimStatusCancelled = "cancelled"
)

// 认领完成方
const (
	ClaimCompletedByDonor     = "donor"
	ClaimCompletedByRecipient = "recipient"
)

// 用户角色常量
const (
	RoleDonor     = "donor"
	RoleRecipient = "recipient"
	RoleAdmin     = "admin"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 留言状态常量
const (
	ContactStatusNew     = "new"
	ContactStatusHandled = "handled"
)

// 取件码配置
const (
	ConfirmationCodeLength   = 6
	ConfirmationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// 评分范围
const (
	ReviewRatingMin = 1
	ReviewRatingMax = 5
)

// 异步任务队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 登录日志状态
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录失败原因
const (
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonUserDisabled       = "user_disabled"
	LoginLogFailReasonInternalError      = "internal_error"
)

// 管理端审计动作
const (
	AuditActionPolicyGrant  = "authz_policy_grant"
	AuditActionPolicyRevoke = "authz_policy_revoke"
	AuditActionUserStatus   = "user_status_update"
	AuditActionListingForce = "listing_force_delete"
	AuditActionContactDone  = "contact_message_handled"
)
