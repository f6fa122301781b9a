package i18n

var catalogs = map[string]map[string]string{
	LocaleZhCN: {
		"error.bad_request":               "请求参数错误",
		"error.validation_failed":         "参数校验失败",
		"error.unauthorized":              "未登录或登录已过期",
		"error.forbidden":                 "无权执行该操作",
		"error.not_found":                 "资源不存在",
		"error.internal":                  "服务器内部错误",
		"error.too_many_requests":         "请求过于频繁，请稍后再试",
		"error.auth_header_missing":       "缺少 Authorization 请求头",
		"error.auth_header_invalid":       "Authorization 格式错误",
		"error.token_invalid":             "登录凭证无效",
		"error.token_revoked":             "登录凭证已失效，请重新登录",
		"error.user_disabled":             "账号已被禁用",
		"error.user_id_invalid":           "用户 ID 无效",
		"error.user_id_type_invalid":      "用户 ID 类型错误",
		"error.role_forbidden":            "当前角色无权访问",
		"error.listing_not_found":         "餐品不存在",
		"error.listing_unavailable":       "餐品已被认领或不可认领",
		"error.listing_state_conflict":    "餐品状态与认领不一致",
		"error.listing_has_active_claim":  "餐品存在进行中的认领，无法删除",
		"error.listing_id_invalid":        "餐品 ID 无效",
		"error.listing_create_failed":     "发布餐品失败",
		"error.listing_update_failed":     "更新餐品失败",
		"error.listing_delete_failed":     "删除餐品失败",
		"error.listing_fetch_failed":      "获取餐品失败",
		"error.login_log_fetch_failed":    "获取登录日志失败",
		"error.audit_log_fetch_failed":    "获取审计日志失败",
		"error.claim_not_found":           "认领记录不存在",
		"error.claim_duplicate":           "你已认领过该餐品",
		"error.claim_status_transition":   "当前认领状态不允许该操作",
		"error.claim_status_invalid":      "认领状态无效",
		"error.claim_code_invalid":        "取件码错误",
		"error.claim_not_donor":           "只有发布商家可以处理该认领",
		"error.claim_not_recipient":       "该认领不属于当前用户",
		"error.claim_own_listing":         "不能认领自己发布的餐品",
		"error.claim_id_invalid":          "认领 ID 无效",
		"error.claim_failed":              "认领失败",
		"error.claim_update_failed":       "更新认领失败",
		"error.claim_fetch_failed":        "获取认领失败",
		"error.notes_too_long":            "备注过长",
		"error.review_rating_invalid":     "评分须在 1 到 5 之间",
		"error.review_not_allowed":        "仅已完成的认领可以评价",
		"error.review_exists":             "该认领已评价",
		"error.review_failed":             "评价失败",
		"error.review_not_found":          "该认领暂无评价",
		"error.review_fetch_failed":       "获取评价失败",
		"error.email_invalid":             "邮箱格式错误",
		"error.email_exists":              "邮箱已注册",
		"error.role_invalid":              "角色只能是商家或领取人",
		"error.user_status_invalid":       "用户状态无效",
		"error.password_weak":             "密码强度不足",
		"error.password_min_length":       "密码长度至少 %d 位",
		"error.password_require_upper":    "密码需包含大写字母",
		"error.password_require_lower":    "密码需包含小写字母",
		"error.password_require_number":   "密码需包含数字",
		"error.invalid_credentials":       "邮箱或密码错误",
		"error.login_failed":              "登录失败",
		"error.register_failed":           "注册失败",
		"error.user_not_found":            "用户不存在",
		"error.profile_update_failed":     "更新资料失败",
		"error.contact_message_not_found": "留言不存在",
		"error.contact_submit_failed":     "提交留言失败",
		"error.donor_stats_failed":        "获取商家评分失败",
		"error.dashboard_failed":          "获取仪表盘数据失败",
		"error.user_list_failed":          "获取用户列表失败",
		"error.user_status_update_failed": "更新用户状态失败",
		"error.login_rate_limited":        "登录尝试过多，请 %d 秒后再试",
		"error.claim_rate_limited":        "认领过于频繁，请 %d 秒后再试",
		"error.rate_limited":              "请求过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":    "限流服务暂不可用",
		"error.authz_policy_failed":       "权限策略操作失败",
		"error.authz_policy_builtin":      "预置权限策略不可撤销",
	},
	LocaleEnUS: {
		"error.bad_request":               "Bad request",
		"error.validation_failed":         "Validation failed",
		"error.unauthorized":              "Not signed in or session expired",
		"error.forbidden":                 "You are not allowed to do this",
		"error.not_found":                 "Resource not found",
		"error.internal":                  "Internal server error",
		"error.too_many_requests":         "Too many requests, please try again later",
		"error.auth_header_missing":       "Missing Authorization header",
		"error.auth_header_invalid":       "Malformed Authorization header",
		"error.token_invalid":             "Invalid token",
		"error.token_revoked":             "Token revoked, please sign in again",
		"error.user_disabled":             "Account disabled",
		"error.user_id_invalid":           "Invalid user id",
		"error.user_id_type_invalid":      "Invalid user id type",
		"error.role_forbidden":            "Your role cannot access this resource",
		"error.listing_not_found":         "Listing not found",
		"error.listing_unavailable":       "Listing is no longer available",
		"error.listing_state_conflict":    "Listing status does not match the claim",
		"error.listing_has_active_claim":  "Listing has an active claim and cannot be deleted",
		"error.listing_id_invalid":        "Invalid listing id",
		"error.listing_create_failed":     "Failed to create listing",
		"error.listing_update_failed":     "Failed to update listing",
		"error.listing_delete_failed":     "Failed to delete listing",
		"error.listing_fetch_failed":      "Failed to load listings",
		"error.login_log_fetch_failed":    "Failed to load login logs",
		"error.audit_log_fetch_failed":    "Failed to load audit logs",
		"error.claim_not_found":           "Claim not found",
		"error.claim_duplicate":           "You have already claimed this listing",
		"error.claim_status_transition":   "This claim cannot move to the requested status",
		"error.claim_status_invalid":      "Invalid claim status",
		"error.claim_code_invalid":        "Invalid confirmation code",
		"error.claim_not_donor":           "Only the listing donor can update this claim",
		"error.claim_not_recipient":       "This claim does not belong to you",
		"error.claim_own_listing":         "You cannot claim your own listing",
		"error.claim_id_invalid":          "Invalid claim id",
		"error.claim_failed":              "Failed to claim listing",
		"error.claim_update_failed":       "Failed to update claim",
		"error.claim_fetch_failed":        "Failed to load claims",
		"error.notes_too_long":            "Notes are too long",
		"error.review_rating_invalid":     "Rating must be between 1 and 5",
		"error.review_not_allowed":        "Only completed claims can be reviewed",
		"error.review_exists":             "This claim has already been reviewed",
		"error.review_failed":             "Failed to submit review",
		"error.review_not_found":          "This claim has no review yet",
		"error.review_fetch_failed":       "Failed to load review",
		"error.email_invalid":             "Invalid email",
		"error.email_exists":              "Email already registered",
		"error.role_invalid":              "Role must be donor or recipient",
		"error.user_status_invalid":       "Invalid user status",
		"error.password_weak":             "Password is too weak",
		"error.password_min_length":       "Password must be at least %d characters",
		"error.password_require_upper":    "Password must contain an uppercase letter",
		"error.password_require_lower":    "Password must contain a lowercase letter",
		"error.password_require_number":   "Password must contain a number",
		"error.invalid_credentials":       "Invalid email or password",
		"error.login_failed":              "Login failed",
		"error.register_failed":           "Registration failed",
		"error.user_not_found":            "User not found",
		"error.profile_update_failed":     "Failed to update profile",
		"error.contact_message_not_found": "Message not found",
		"error.contact_submit_failed":     "Failed to submit message",
		"error.donor_stats_failed":        "Failed to load donor stats",
		"error.dashboard_failed":          "Failed to load dashboard",
		"error.user_list_failed":          "Failed to load users",
		"error.user_status_update_failed": "Failed to update user status",
		"error.login_rate_limited":        "Too many login attempts, retry in %d seconds",
		"error.claim_rate_limited":        "Too many claim attempts, retry in %d seconds",
		"error.rate_limited":              "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":    "Rate limiter unavailable",
		"error.authz_policy_failed":       "Failed to change access policy",
		"error.authz_policy_builtin":      "Builtin access policies cannot be revoked",
	},
}
