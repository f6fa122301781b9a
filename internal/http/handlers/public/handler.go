package public

import "github.com/foodshare-next/internal/provider"

// Handler 前台接口处理器入口
// 说明：游客、商家、领取人共用，角色限制由路由策略负责。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
