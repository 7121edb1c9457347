package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/statusquo/feed-service/internal/core/domain"
	"github.com/statusquo/feed-service/internal/core/ports"
)

func newIdentityFixture() (*IdentityService, *memUserRepo) {
	users := newMemUserRepo()
	svc := NewIdentityService(users, "test-secret", time.Hour, discardLogger)
	return svc, users
}

func TestIdentityService_SessionRoundTrip(t *testing.T) {
	svc, users := newIdentityFixture()
	user := users.addUser("github:1", "alice")

	token, err := svc.IssueSession(user.ID)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	resolved, err := svc.ResolveSession(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if resolved == nil {
		t.Fatal("expected resolved user, got anonymous")
	}
	if resolved.ID != user.ID {
		t.Errorf("resolved id = %q, want %q", resolved.ID, user.ID)
	}
}

func TestIdentityService_ResolveSession_Anonymous(t *testing.T) {
	svc, _ := newIdentityFixture()

	for name, token := range map[string]string{
		"empty":   "",
		"garbage": "not-a-jwt",
	} {
		user, err := svc.ResolveSession(context.Background(), token)
		if err != nil {
			t.Fatalf("%s token: unexpected error: %v", name, err)
		}
		if user != nil {
			t.Errorf("%s token resolved to %+v, want anonymous", name, user)
		}
	}
}

func TestIdentityService_ResolveSession_WrongSecret(t *testing.T) {
	svc, users := newIdentityFixture()
	user := users.addUser("github:1", "alice")

	other := NewIdentityService(users, "other-secret", time.Hour, discardLogger)
	token, err := other.IssueSession(user.ID)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	resolved, err := svc.ResolveSession(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != nil {
		t.Error("token signed with a different secret must resolve to anonymous")
	}
}

func TestIdentityService_ResolveSession_StaleUser(t *testing.T) {
	svc, users := newIdentityFixture()
	user := users.addUser("github:1", "alice")

	token, err := svc.IssueSession(user.ID)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	// The account disappears while the cookie lives on.
	delete(users.users, user.ID)

	resolved, err := svc.ResolveSession(context.Background(), token)
	if err != nil {
		t.Fatalf("stale session must degrade gracefully, got error: %v", err)
	}
	if resolved != nil {
		t.Error("stale session must resolve to anonymous")
	}
}

func TestIdentityService_ResolveSession_StoreFailureIsRetriable(t *testing.T) {
	svc, users := newIdentityFixture()
	user := users.addUser("github:1", "alice")

	token, err := svc.IssueSession(user.ID)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	users.findErr = errors.New("connection timeout")

	_, err = svc.ResolveSession(context.Background(), token)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestIdentityService_Login_UpsertIdempotent(t *testing.T) {
	svc, users := newIdentityFixture()
	ctx := context.Background()

	first, err := svc.Login(ctx, ports.LoginInput{ExternalID: "github:1", Username: "alice", Avatar: "a.png"})
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login(ctx, ports.LoginInput{ExternalID: "github:1", Username: "alice-renamed", Avatar: "b.png"})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("repeat login created a new user: %q vs %q", second.ID, first.ID)
	}
	if len(users.users) != 1 {
		t.Errorf("user count = %d, want 1", len(users.users))
	}
	if second.Username != "alice-renamed" || second.Avatar != "b.png" {
		t.Errorf("profile not refreshed on login: %+v", second)
	}
}

func TestIdentityService_LoginAnonymous(t *testing.T) {
	svc, users := newIdentityFixture()

	first, err := svc.LoginAnonymous(context.Background())
	if err != nil {
		t.Fatalf("first anonymous login: %v", err)
	}
	second, err := svc.LoginAnonymous(context.Background())
	if err != nil {
		t.Fatalf("second anonymous login: %v", err)
	}

	if !strings.HasPrefix(first.ExternalID, "anon:") {
		t.Errorf("external id = %q, want anon: prefix", first.ExternalID)
	}
	if first.ID == second.ID {
		t.Error("anonymous logins must mint distinct accounts")
	}
	if len(users.users) != 2 {
		t.Errorf("user count = %d, want 2", len(users.users))
	}
	if first.Username == "" {
		t.Error("anonymous account needs a generated username")
	}
}
