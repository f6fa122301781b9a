package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	return svc
}

func TestBuiltinRolePolicies(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	cases := []struct {
		role   string
		path   string
		method string
		allow  bool
	}{
		{"donor", "/api/v1/listings", "POST", true},
		{"donor", "/api/v1/claims/7/status", "put", true},
		{"donor", "/api/v1/listings/7/claim", "POST", false},
		{"donor", "/api/v1/me", "GET", true},
		{"recipient", "/api/v1/listings/7/claim", "POST", true},
		{"recipient", "/api/v1/reservations/3/cancel", "POST", true},
		{"recipient", "/api/v1/claims/3/status", "PUT", false},
		{"recipient", "/api/v1/listings", "POST", false},
		{"recipient", "/api/v1/claims/3/events", "GET", true},
		{"donor", "/api/v1/claims/3/review", "GET", true},
		{"recipient", "/api/v1/claims/3/review", "POST", true},
		{"admin", "/api/v1/admin/users/5/status", "PUT", true},
		{"admin", "/api/v1/listings/7/claim", "POST", false},
		{"donor", "/api/v1/admin/dashboard", "GET", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceRole(tc.role, tc.path, tc.method)
		if err != nil {
			t.Fatalf("enforce %s %s %s failed: %v", tc.role, tc.method, tc.path, err)
		}
		if allow != tc.allow {
			t.Fatalf("enforce %s %s %s = %v, want %v", tc.role, tc.method, tc.path, allow, tc.allow)
		}
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	before, err := svc.GetRolePolicies("donor")
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	after, err := svc.GetRolePolicies("donor")
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(before) != len(after) {
		t.Fatalf("policy count changed: %d -> %d", len(before), len(after))
	}
}

func TestGrantAndRevokeRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("recipient", "/donor/listings", "get"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	allow, err := svc.EnforceRole("recipient", "/api/v1/donor/listings", "GET")
	if err != nil || !allow {
		t.Fatalf("expected granted policy to allow, allow=%v err=%v", allow, err)
	}
	if err := svc.RevokeRolePolicy("recipient", "/donor/listings", "GET"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	allow, err = svc.EnforceRole("recipient", "/api/v1/donor/listings", "GET")
	if err != nil || allow {
		t.Fatalf("expected revoked policy to deny, allow=%v err=%v", allow, err)
	}
}

func TestRevokeBuiltinPolicyRejected(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	err := svc.RevokeRolePolicy("recipient", "/listings/:id/claim", "POST")
	if !errors.Is(err, ErrBuiltinPolicy) {
		t.Fatalf("expected ErrBuiltinPolicy, got %v", err)
	}
}

func TestListRolesAndNormalize(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	want := map[string]bool{"role:admin": false, "role:donor": false, "role:member": false, "role:recipient": false}
	for _, role := range roles {
		if _, ok := want[role]; ok {
			want[role] = true
		}
	}
	for role, found := range want {
		if !found {
			t.Fatalf("role %s missing from %v", role, roles)
		}
	}

	if got := NormalizeObject("api/v1/listings"); got != "/listings" {
		t.Fatalf("unexpected object without leading slash: %s", got)
	}
	if got := NormalizeObject("/api/v1/listings/3"); got != "/listings/3" {
		t.Fatalf("unexpected normalized object: %s", got)
	}
	if _, err := NormalizeRole("  "); err == nil {
		t.Fatalf("expected empty role error")
	}
}
