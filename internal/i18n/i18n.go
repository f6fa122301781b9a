package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"

	DefaultLocale = LocaleZhCN
)

var defaultLocale = DefaultLocale

// SetDefaultLocale 设置未识别语言时的回退语言
func SetDefaultLocale(locale string) {
	if normalized, ok := normalizeLocale(locale); ok {
		defaultLocale = normalized
	}
}

// ResolveLocale 从请求解析语言：?lang= 优先，其次 X-Locale 与 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return defaultLocale
	}
	candidates := []string{
		c.Query("lang"),
		c.GetHeader("X-Locale"),
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		candidates = append(candidates, strings.SplitN(part, ";", 2)[0])
	}
	for _, raw := range candidates {
		if locale, ok := normalizeLocale(raw); ok {
			return locale
		}
	}
	return defaultLocale
}

// T 获取文案，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(defaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf 获取文案并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func lookup(locale, key string) (string, bool) {
	messages, ok := catalogs[locale]
	if !ok {
		return "", false
	}
	msg, ok := messages[key]
	return msg, ok
}

func normalizeLocale(raw string) (string, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case value == "":
		return "", false
	case strings.HasPrefix(value, "zh"):
		return LocaleZhCN, true
	case strings.HasPrefix(value, "en"):
		return LocaleEnUS, true
	}
	return "", false
}
