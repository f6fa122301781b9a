package admin

import (
	"strconv"

	handlershared "github.com/foodshare-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// getAdminID 管理员与普通用户共用 JWT，身份由路由策略限定为 admin
func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

func parsePage(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return handlershared.NormalizePagination(page, pageSize)
}
