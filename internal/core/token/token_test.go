package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/safevault/safevault-api/internal/core/domain"
)

var testConfig = Config{
	Key:      "test-signing-key",
	Issuer:   "safevault",
	Audience: "safevault-clients",
	TTL:      30 * time.Minute,
}

func testUser() *domain.User {
	return &domain.User{
		ID:       "42",
		Username: "alice",
		Email:    "alice@example.com",
	}
}

func TestNewIssuer_ConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"missing key", Config{Issuer: "i", Audience: "a"}, ErrNoKey},
		{"missing issuer", Config{Key: "k", Audience: "a"}, ErrNoIssuer},
		{"missing audience", Config{Key: "k", Issuer: "i"}, ErrNoAudience},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewIssuer(tc.cfg); !errors.Is(err, tc.want) {
				t.Fatalf("NewIssuer error = %v, want %v", err, tc.want)
			}
			if _, err := NewVerifier(tc.cfg); !errors.Is(err, tc.want) {
				t.Fatalf("NewVerifier error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewIssuer(testConfig)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	verifier, err := NewVerifier(testConfig)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	raw, err := issuer.Issue(testUser(), []string{domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := verifier.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "alice" || claims.Username != "alice" {
		t.Fatalf("unexpected subject claims: %+v", claims)
	}
	if claims.Email != "alice@example.com" || claims.UserID != "42" {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != domain.RoleAdmin {
		t.Fatalf("expected exactly one Admin role claim, got %v", claims.Roles)
	}
	if !claims.HasRole(domain.RoleAdmin) || claims.HasRole(domain.RoleManager) {
		t.Fatalf("HasRole gave wrong answers for %v", claims.Roles)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti nonce")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatal("token not valid immediately after issuance")
	}
}

func TestIssue_NoRoles(t *testing.T) {
	issuer, _ := NewIssuer(testConfig)
	verifier, _ := NewVerifier(testConfig)

	raw, err := issuer.Issue(testUser(), nil)
	if err != nil {
		t.Fatalf("Issue with no roles: %v", err)
	}
	claims, err := verifier.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Roles == nil || len(claims.Roles) != 0 {
		t.Fatalf("expected zero role claims, got %v", claims.Roles)
	}
}

func TestIssue_FreshNoncePerToken(t *testing.T) {
	issuer, _ := NewIssuer(testConfig)
	verifier, _ := NewVerifier(testConfig)

	first, err := issuer.Issue(testUser(), nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	second, err := issuer.Issue(testUser(), nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if first == second {
		t.Fatal("two tokens issued in the same instant are identical")
	}

	c1, _ := verifier.Verify(first)
	c2, _ := verifier.Verify(second)
	if c1.ID == c2.ID {
		t.Fatalf("jti reused across tokens: %s", c1.ID)
	}
}

func TestVerify_Expired(t *testing.T) {
	verifier, _ := NewVerifier(testConfig)

	// Hand-craft an otherwise valid token whose expiry already passed.
	now := time.Now().UTC()
	claims := Claims{
		Roles: []string{},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    testConfig.Issuer,
			Audience:  jwt.ClaimStrings{testConfig.Audience},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-30 * time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testConfig.Key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := verifier.Verify(raw); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_RejectsMismatchedConfig(t *testing.T) {
	issuer, _ := NewIssuer(testConfig)
	raw, err := issuer.Issue(testUser(), nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name string
		cfg  Config
	}{
		{"wrong key", Config{Key: "other-key", Issuer: testConfig.Issuer, Audience: testConfig.Audience}},
		{"wrong issuer", Config{Key: testConfig.Key, Issuer: "someone-else", Audience: testConfig.Audience}},
		{"wrong audience", Config{Key: testConfig.Key, Issuer: testConfig.Issuer, Audience: "other-clients"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := NewVerifier(tc.cfg)
			if err != nil {
				t.Fatalf("NewVerifier: %v", err)
			}
			if _, err := v.Verify(raw); err == nil {
				t.Fatal("expected verification failure")
			}
		})
	}
}

func TestVerify_RejectsAlgorithmConfusion(t *testing.T) {
	verifier, _ := NewVerifier(testConfig)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "alice",
		"iss": testConfig.Issuer,
		"aud": testConfig.Audience,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := verifier.Verify(raw); err == nil {
		t.Fatal("token signed with alg=none was accepted")
	}
}
