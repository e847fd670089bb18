package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/ysaito/todoapi/app/api/auth"
	brokerMemory "github.com/ysaito/todoapi/business/broker/memory"
	"github.com/ysaito/todoapi/business/domain/user"
	"github.com/ysaito/todoapi/business/domain/user/store/memory"
	"github.com/ysaito/todoapi/business/domain/values"
)

const kid = "s4sKIjD9kIRjxs2tulPqGLdxSfgPErRN1Mu3Hd9k9NQ"

type mapRevoker struct {
	revoked map[string]bool
}

func (m *mapRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if m.revoked == nil {
		m.revoked = make(map[string]bool)
	}
	m.revoked[jti] = true
	return nil
}

func (m *mapRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

func newTestAuth(t *testing.T) (*auth.Auth, *user.Service) {
	ks := auth.NewMockKeyStore(t)

	userService, err := user.NewService(&memory.Repository{}, &brokerMemory.Client{})
	if err != nil {
		t.Fatalf("expected to create the user service: %s", err)
	}

	a := auth.New(auth.Config{
		Keystore:    ks,
		ActiveKid:   kid,
		TokenAge:    time.Hour,
		UserService: userService,
		Revoker:     &mapRevoker{},
		Issuer:      "test",
	})
	return a, userService
}

func TestToken(t *testing.T) {
	a, userService := newTestAuth(t)

	usr, err := userService.CreateUser(context.Background(), user.NewUser{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "test12345",
	})
	if err != nil {
		t.Fatalf("expected the user to be created: %s", err)
	}

	tkn, err := a.IssueToken(usr)
	if err != nil {
		t.Fatalf("expected the jwt token to be generated: %s", err)
	}

	bearer := "Bearer " + tkn

	got, claims, err := a.ValidateToken(context.Background(), bearer)
	if err != nil {
		t.Fatalf("expected the token to be valid and get back user: %s", err)
	}

	if claims.Subject != usr.Email.String() {
		t.Errorf("claims.Subject= %s, got %s", usr.Email, claims.Subject)
	}
	if claims.ID == "" {
		t.Error("expected the token to carry a jti")
	}
	if !got.ID.Equal(usr.ID) {
		t.Errorf("got.ID= %s, got %s", usr.ID, got.ID)
	}
}

func TestTokenMissingBearerPrefix(t *testing.T) {
	a, _ := newTestAuth(t)

	if _, _, err := a.ValidateToken(context.Background(), "not-a-bearer-token"); err == nil {
		t.Fatal("expected a malformed authorization header to be rejected")
	}
}

func TestRevokedToken(t *testing.T) {
	a, userService := newTestAuth(t)

	usr, err := userService.CreateUser(context.Background(), user.NewUser{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "test12345",
	})
	if err != nil {
		t.Fatalf("expected the user to be created: %s", err)
	}

	tkn, err := a.IssueToken(usr)
	if err != nil {
		t.Fatalf("expected the jwt token to be generated: %s", err)
	}
	bearer := "Bearer " + tkn

	_, claims, err := a.ValidateToken(context.Background(), bearer)
	if err != nil {
		t.Fatalf("expected the token to be valid before logout: %s", err)
	}

	if err := a.RevokeToken(context.Background(), claims); err != nil {
		t.Fatalf("expected the token to be revoked: %s", err)
	}

	if _, _, err := a.ValidateToken(context.Background(), bearer); err == nil {
		t.Fatal("expected the revoked token to be rejected")
	}
}

func TestInactiveUserToken(t *testing.T) {
	a, userService := newTestAuth(t)

	usr, err := userService.CreateUser(context.Background(), user.NewUser{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "test12345",
	})
	if err != nil {
		t.Fatalf("expected the user to be created: %s", err)
	}

	tkn, err := a.IssueToken(usr)
	if err != nil {
		t.Fatalf("expected the jwt token to be generated: %s", err)
	}

	if _, err := userService.DeactivateUser(context.Background(), usr.ID); err != nil {
		t.Fatalf("expected the user to be deactivated: %s", err)
	}

	if _, _, err := a.ValidateToken(context.Background(), "Bearer "+tkn); err == nil {
		t.Fatal("expected the token of an inactive user to be rejected")
	}
}

func TestAuthorized(t *testing.T) {
	a, userService := newTestAuth(t)

	usr, err := userService.CreateUser(context.Background(), user.NewUser{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "test12345",
	})
	if err != nil {
		t.Fatalf("expected the user to be created: %s", err)
	}

	if err := a.Authorized(usr); err == nil {
		t.Fatal("expected a regular user to not be authorized")
	}

	usr.IsSuperUser = values.NewIsSuperUser(true)
	if err := a.Authorized(usr); err != nil {
		t.Fatalf("expected a superuser to be authorized: %s", err)
	}
}
