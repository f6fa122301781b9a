//go:build integration
// +build integration

package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/foodshare-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// setupRedisIntegrationClient 初始化 Redis 集成测试客户端。
func setupRedisIntegrationClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("skip redis integration test: TEST_REDIS_ADDR is empty")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping redis failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimitBlockWindowIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := setupRedisIntegrationClient(t)
	ctx := context.Background()

	prefix := fmt.Sprintf("fs:test:rate:%d", time.Now().UnixNano())
	rule := RateLimitRule{Prefix: prefix, WindowSeconds: 60, MaxRequests: 2, BlockSeconds: 300}
	t.Cleanup(func() { _ = client.Del(ctx, prefix+":user:7").Err() })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(userIDContextKey, uint(7))
		c.Next()
	})
	r.Use(RateLimitMiddleware(client, rule, KeyByUserID))
	r.POST("/claim", func(c *gin.Context) {
		response.Success(c, gin.H{"ok": true})
	})

	statusCode := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/claim", nil))
		var body struct {
			StatusCode int `json:"status_code"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response failed: %v (%s)", err, w.Body.String())
		}
		return body.StatusCode
	}

	for i := 0; i < 2; i++ {
		if code := statusCode(); code != 0 {
			t.Fatalf("request %d within limit got status_code %d", i+1, code)
		}
	}
	if ttl := client.TTL(ctx, prefix+":user:7").Val(); ttl > 60*time.Second {
		t.Fatalf("window ttl should not exceed 60s before the limit, got %s", ttl)
	}

	if code := statusCode(); code != response.CodeTooManyRequests {
		t.Fatalf("third request want %d got %d", response.CodeTooManyRequests, code)
	}
	if ttl := client.TTL(ctx, prefix+":user:7").Val(); ttl <= 60*time.Second {
		t.Fatalf("exceeding the limit should extend the key to the block window, got %s", ttl)
	}
	if code := statusCode(); code != response.CodeTooManyRequests {
		t.Fatalf("request inside block window want %d got %d", response.CodeTooManyRequests, code)
	}
}
