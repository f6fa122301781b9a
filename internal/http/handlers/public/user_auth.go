package public

import (
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserRegister 注册商家或领取人
func (h *Handler) UserRegister(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.UserAuthService.Register(c.Request.Context(), req)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "error.register_failed")
		return
	}
	response.Success(c, result)
}

// UserLogin 邮箱密码登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password)
	h.recordLogin(c, req.Email, result, err)
	if err != nil {
		if !service.IsAuthError(err) {
			requestLog(c).Warnw("user_login_failed", "email", req.Email, "error", err)
		}
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "error.login_failed")
		return
	}
	response.Success(c, result)
}

func (h *Handler) recordLogin(c *gin.Context, email string, result *service.AuthResult, loginErr error) {
	input := service.RecordUserLoginInput{
		Email:     email,
		Err:       loginErr,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString("request_id"),
	}
	if result != nil && result.User != nil {
		input.UserID = result.User.ID
	}
	if err := h.LoginLogService.Record(input); err != nil {
		requestLog(c).Warnw("user_login_log_record_failed", "email", email, "error", err)
	}
}

// GetMyLoginLogs 当前用户的登录记录
func (h *Handler) GetMyLoginLogs(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePage(c)
	logs, total, err := h.LoginLogService.ListByUser(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.login_log_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, logs, response.BuildPagination(page, pageSize, total))
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "error.user_not_found")
		return
	}
	response.Success(c, user)
}

// UpdateCurrentUser 更新个人资料
func (h *Handler) UpdateCurrentUser(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req service.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserAuthService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "error.profile_update_failed")
		return
	}
	response.Success(c, user)
}
