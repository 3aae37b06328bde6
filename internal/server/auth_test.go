package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gravitas-games/mechtactics/internal/config"
)

func authConfig() *config.Config {
	cfg := testConfig()
	cfg.JWT.Issuer = "login"
	cfg.JWT.PublicKeyRefreshHrs = 24
	return cfg
}

func newKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func signToken(t *testing.T, key *ecdsa.PrivateKey, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func validClaims() Claims {
	return Claims{
		UserID:    42,
		Username:  "pilot",
		Email:     "pilot@example.com",
		Activated: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "login",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestValidateToken(t *testing.T) {
	key := newKey(t)
	v := NewStaticJWTValidator(authConfig(), &key.PublicKey, nil)

	player, err := v.ValidateToken(signToken(t, key, validClaims()))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if player.ID != "42" || player.Username != "pilot" {
		t.Fatalf("unexpected player %+v", player)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	key := newKey(t)
	v := NewStaticJWTValidator(authConfig(), &key.PublicKey, nil)

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "elsewhere"
	banned := validClaims()
	banned.Activated = -1
	inactive := validClaims()
	inactive.Activated = 0
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	cases := map[string]string{
		"issuer":   signToken(t, key, wrongIssuer),
		"banned":   signToken(t, key, banned),
		"inactive": signToken(t, key, inactive),
		"expired":  signToken(t, key, expired),
		"foreign":  signToken(t, newKey(t), validClaims()),
	}
	for name, token := range cases {
		if _, err := v.ValidateToken(token); err == nil {
			t.Errorf("%s: expected rejection", name)
		}
	}

	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign hmac: %v", err)
	}
	if _, err := v.ValidateToken(hmac); err == nil {
		t.Fatalf("expected HMAC token to be rejected")
	}
}

func TestRefreshPublicKey(t *testing.T) {
	key := newKey(t)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	keyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
	}))
	defer keyServer.Close()

	cfg := authConfig()
	cfg.JWT.PublicKeyURL = keyServer.URL
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v, err := NewJWTValidator(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	if _, err := v.ValidateToken(signToken(t, key, validClaims())); err != nil {
		t.Fatalf("validate with fetched key: %v", err)
	}
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Sec-WebSocket-Protocol", "access_token, abc.def")
	if got := extractTokenFromHeader(r); got != "abc.def" {
		t.Fatalf("protocol header: got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "Bearer xyz")
	if got := extractTokenFromHeader(r); got != "xyz" {
		t.Fatalf("authorization header: got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/ws?token=q1", nil)
	if got := extractTokenFromHeader(r); got != "q1" {
		t.Fatalf("query: got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	if got := extractTokenFromHeader(r); got != "" {
		t.Fatalf("expected no token, got %q", got)
	}
}

func TestHealthAndMissingToken(t *testing.T) {
	s := newTestSession(t, uniform(2, 2))
	key := newKey(t)
	ctx, cancel := context.WithCancel(context.Background())
	srv := newServer(ctx, cancel, authConfig(), s, NewStaticJWTValidator(authConfig(), &key.PublicKey, nil))
	defer cancel()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("ws without token: status %d", rec.Code)
	}
}
