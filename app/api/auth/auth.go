// Package auth provides support for authentication and authorization.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/ysaito/todoapi/business/domain/user"
	"github.com/ysaito/todoapi/business/domain/values"
)

// Claims represents the authorization claims.
type Claims struct {
	jwt.RegisteredClaims
}

// Keystore represents the set of behaviours required by auth package to lookup private and public keys.
type Keystore interface {
	PrivateKey(kid string) (string, error)
	PublicKey(kid string) (string, error)
}

// Revoker knows which token ids were invalidated before their expiry.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Config holds the dependencies the auth APIs need.
type Config struct {
	Keystore    Keystore
	ActiveKid   string
	TokenAge    time.Duration
	UserService *user.Service
	Revoker     Revoker
	Issuer      string
}

// Auth represents the set of APIs used for authentication and authorization.
type Auth struct {
	keystore    Keystore
	activeKid   string
	tokenAge    time.Duration
	userService *user.Service
	revoker     Revoker
	issuer      string
}

// New creates an auth instance with the provided configuration.
func New(cfg Config) *Auth {
	return &Auth{
		keystore:    cfg.Keystore,
		activeKid:   cfg.ActiveKid,
		tokenAge:    cfg.TokenAge,
		userService: cfg.UserService,
		revoker:     cfg.Revoker,
		issuer:      cfg.Issuer,
	}
}

// IssueToken creates a signed access token for the given user. The subject is
// the user's email address.
func (a *Auth) IssueToken(usr user.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   usr.Email.String(),
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenAge)),
		},
	}

	method := jwt.GetSigningMethod(jwt.SigningMethodRS256.Name)
	tkn := jwt.NewWithClaims(method, claims)

	//save the kid
	tkn.Header["kid"] = a.activeKid

	privatePEM, err := a.keystore.PrivateKey(a.activeKid)
	if err != nil {
		return "", fmt.Errorf("fetching private key: %w", err)
	}

	pemBlock, _ := pem.Decode([]byte(privatePEM))
	if pemBlock == nil || pemBlock.Type != "PRIVATE KEY" {
		return "", errors.New("failed to decode private key into pem block")
	}

	//since we want to support multiple key types in future we use "PKCS8"
	privateKey, err := x509.ParsePKCS8PrivateKey(pemBlock.Bytes)
	if err != nil {
		return "", fmt.Errorf("parse private key: %w", err)
	}

	rsaPrivateKey, ok := privateKey.(*rsa.PrivateKey)
	if !ok {
		return "", errors.New("invalid key algorithm")
	}

	tokenString, err := tkn.SignedString(rsaPrivateKey)
	if err != nil {
		return "", fmt.Errorf("signed string: %w", err)
	}
	return tokenString, nil
}

// ValidateToken is going to validate a jwt bearer token and return the corresponding user and claims on success.
func (a *Auth) ValidateToken(ctx context.Context, bearerToken string) (user.User, Claims, error) {
	prefix := "Bearer "

	if !strings.HasPrefix(bearerToken, prefix) {
		return user.User{}, Claims{}, errors.New("invalid authorization header format: Bearer <token>")
	}

	tknString := bearerToken[len(prefix):]

	keyFn := func(t *jwt.Token) (interface{}, error) {
		key, ok := t.Header["kid"]
		if !ok {
			return nil, errors.New("kid (key id) not found in token header")
		}

		kid, ok := key.(string)
		if !ok {
			return nil, errors.New("kid (key id) malformed")
		}

		//search for the public key for this kid
		publicPEM, err := a.keystore.PublicKey(kid)
		if err != nil {
			return nil, fmt.Errorf("fetching public key: %w", err)
		}

		pemBlock, _ := pem.Decode([]byte(publicPEM))
		if pemBlock == nil || pemBlock.Type != "PUBLIC KEY" {
			return nil, errors.New("failed to decode public key into pem block")
		}

		publicKey, err := x509.ParsePKIXPublicKey(pemBlock.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}

		return publicKey, nil
	}

	var claims Claims
	tkn, err := jwt.ParseWithClaims(tknString, &claims, keyFn)

	if err != nil {
		return user.User{}, Claims{}, fmt.Errorf("parse with claims: %w", err)
	}

	if !tkn.Valid {
		return user.User{}, Claims{}, errors.New("invalid token")
	}

	if a.revoker != nil && claims.ID != "" {
		revoked, err := a.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return user.User{}, Claims{}, fmt.Errorf("revocation check: %w", err)
		}
		if revoked {
			return user.User{}, Claims{}, errors.New("token has been revoked")
		}
	}

	//check the user in db
	email, err := values.ParseEmail(claims.Subject)
	if err != nil {
		return user.User{}, Claims{}, fmt.Errorf("parse subject email: %w", err)
	}

	usr, err := a.userService.GetUserByEmail(ctx, email)
	if err != nil {
		return user.User{}, Claims{}, fmt.Errorf("getUserByEmail: %w", err)
	}

	if !usr.IsActive.Value() {
		return user.User{}, Claims{}, errors.New("user is inactive")
	}

	if usr.IsDeleted() {
		return user.User{}, Claims{}, errors.New("user is deleted")
	}

	return usr, claims, nil
}

// RevokeToken invalidates the token behind the claims for the remainder of its
// lifetime.
func (a *Auth) RevokeToken(ctx context.Context, claims Claims) error {
	if a.revoker == nil {
		return nil
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := a.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	return nil
}

// Authorized returns nil when the user holds superuser rights, otherwise an error.
func (a *Auth) Authorized(usr user.User) error {
	if !usr.IsSuperUser.Value() {
		return errors.New("not authorized")
	}
	return nil
}

type mockKeyStore struct {
	privateKey string
	publicKey  string
}

func NewMockKeyStore(t *testing.T) mockKeyStore {
	private, public := generateKeys(t)
	return mockKeyStore{
		privateKey: private,
		publicKey:  public,
	}
}

func (m mockKeyStore) PrivateKey(kid string) (string, error) {
	return m.privateKey, nil
}

func (m mockKeyStore) PublicKey(kid string) (string, error) {
	return m.publicKey, nil
}

func generateKeys(t *testing.T) (string, string) {
	private, err := rsa.GenerateKey(rand.Reader, 2048)

	if err != nil {
		t.Fatalf("expected to generate random private key: %s", err)
	}

	//save it in PKCS8 format
	pkcs8Private, err := x509.MarshalPKCS8PrivateKey(private)
	if err != nil {
		t.Fatalf("expected to marshal key into pkcs8 format: %s", err)
	}

	PrivatePemBlock := pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: pkcs8Private,
	}

	var privatePEM strings.Builder
	err = pem.Encode(&privatePEM, &PrivatePemBlock)
	if err != nil {
		t.Fatalf("expected to encode into privatePEM: %s", err)
	}

	// public key
	var publicPEM strings.Builder
	publicBytes, err := x509.MarshalPKIXPublicKey(&private.PublicKey)

	if err != nil {
		t.Fatalf("expected to marshal public key into PKIX format: %s", err)
	}

	publicPemBlock := pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicBytes,
	}

	err = pem.Encode(&publicPEM, &publicPemBlock)
	if err != nil {
		t.Fatalf("expected to encode public key: %s", err)
	}

	return privatePEM.String(), publicPEM.String()
}
