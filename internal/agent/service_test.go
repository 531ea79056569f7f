package agent

import (
	"context"
	"testing"
	"time"

	"crm-platform/internal/auth"
	"crm-platform/internal/config"
	"crm-platform/internal/rbac"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	mgr, err := auth.NewManager(config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("auth manager: %v", err)
	}
	svc := NewService(NewMemoryRepo(), mgr)
	svc.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc
}

func TestCreateAndLogin(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreateRequest{
		Username: "kim", Password: "secret1", Name: "김상담",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Role != rbac.RoleAgent {
		t.Fatalf("expected default role AGENT, got %q", created.Role)
	}
	if created.PasswordHash == "secret1" {
		t.Fatalf("password stored in plaintext")
	}

	res, err := svc.Login(context.Background(), "kim", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("expected a token pair, got %+v", res)
	}
	if res.Agent.LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Create(context.Background(), CreateRequest{Username: "kim", Password: "secret1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Login(context.Background(), "kim", "wrong"); err != ErrBadCredentials {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "secret1"); err != ErrBadCredentials {
		t.Fatalf("unknown user must look identical, got %v", err)
	}
}

func TestRefreshIssuesNewPair(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Create(context.Background(), CreateRequest{Username: "kim", Password: "secret1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	res, err := svc.Login(context.Background(), "kim", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), res.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Fatalf("expected a new access token")
	}

	if _, err := svc.Refresh(context.Background(), res.AccessToken); err != ErrBadCredentials {
		t.Fatalf("access token must not refresh, got %v", err)
	}
}

func TestCreateRejectsDuplicateUsername(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Create(context.Background(), CreateRequest{Username: "kim", Password: "a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateRequest{Username: "kim", Password: "b"}); err != ErrDuplicateUsername {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Create(context.Background(), CreateRequest{Username: "kim", Password: "a", Role: "MANAGER"}); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDeviceBindingLifecycle(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.Create(context.Background(), CreateRequest{Username: "kim", Password: "a"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GatewayConfig(context.Background(), a.ID); err != ErrNoGateway {
		t.Fatalf("expected ErrNoGateway before binding, got %v", err)
	}

	if _, err := svc.BindDevice(context.Background(), a.ID, "http://device.local/send", "u", "p"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	gw, err := svc.GatewayConfig(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("gateway config: %v", err)
	}
	if gw.URL != "http://device.local/send" || gw.Username != "u" || gw.Password != "p" {
		t.Fatalf("unexpected gateway config: %+v", gw)
	}

	if _, err := svc.ReleaseDevice(context.Background(), a.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := svc.GatewayConfig(context.Background(), a.ID); err != ErrNoGateway {
		t.Fatalf("expected ErrNoGateway after release, got %v", err)
	}
}

func TestRefsListsOnlyAgents(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Create(context.Background(), CreateRequest{Username: "boss", Password: "a", Role: rbac.RoleAdmin}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	created, err := svc.Create(context.Background(), CreateRequest{Username: "kim", Password: "a", Name: "김상담"})
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}

	refs, err := svc.Refs(context.Background())
	if err != nil {
		t.Fatalf("refs: %v", err)
	}
	if len(refs) != 1 || refs[0].ID != created.ID || refs[0].Name != "김상담" {
		t.Fatalf("unexpected refs: %+v", refs)
	}
}
