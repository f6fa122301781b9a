package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestContext(target string, headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestResolveLocale(t *testing.T) {
	if got := ResolveLocale(newTestContext("/?lang=en", nil)); got != LocaleEnUS {
		t.Fatalf("query lang should win, got %s", got)
	}
	if got := ResolveLocale(newTestContext("/", map[string]string{"Accept-Language": "fr-FR;q=0.9, en-GB;q=0.8"})); got != LocaleEnUS {
		t.Fatalf("accept-language fallback failed, got %s", got)
	}
	if got := ResolveLocale(newTestContext("/", nil)); got != DefaultLocale {
		t.Fatalf("expected default locale, got %s", got)
	}
	if got := ResolveLocale(nil); got != DefaultLocale {
		t.Fatalf("nil context should use default, got %s", got)
	}
}

func TestTranslateFallbacks(t *testing.T) {
	if got := T(LocaleEnUS, "error.claim_code_invalid"); got != "Invalid confirmation code" {
		t.Fatalf("unexpected message: %s", got)
	}
	if got := T("xx", "error.claim_code_invalid"); got != catalogs[DefaultLocale]["error.claim_code_invalid"] {
		t.Fatalf("unknown locale should fall back to default, got %s", got)
	}
	if got := T(LocaleEnUS, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("missing key should return key, got %s", got)
	}
	if got := Sprintf(LocaleEnUS, "error.password_min_length", 8); got != "Password must be at least 8 characters" {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalogs[LocaleZhCN] {
		if _, ok := catalogs[LocaleEnUS][key]; !ok {
			t.Fatalf("en-US missing key %s", key)
		}
	}
	for key := range catalogs[LocaleEnUS] {
		if _, ok := catalogs[LocaleZhCN][key]; !ok {
			t.Fatalf("zh-CN missing key %s", key)
		}
	}
}
