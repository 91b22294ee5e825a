package app

import (
	"fmt"
	"testing"

	"github.com/form3tech-oss/jwt-go"
)

func TestVoiceServiceGenerateLoginToken(t *testing.T) {
	secret := "test-secret"
	issuer := "issuer"
	domain := "example.com"
	user := "user123"

	svc := NewVoiceService(secret, issuer, domain)
	tokenString, err := svc.GenerateToken(user, VoiceTokenActionLogin, "", "")
	if err != nil {
		t.Fatalf("generate login token error: %v", err)
	}

	claims := parseVoiceClaims(t, tokenString, secret)
	userURI := fmt.Sprintf("sip:.%s.%s.@%s", issuer, user, domain)

	if got := stringClaim(t, claims, "vxa"); got != VoiceTokenActionLogin {
		t.Fatalf("vxa = %s, want %s", got, VoiceTokenActionLogin)
	}
	if got := stringClaim(t, claims, "f"); got != userURI {
		t.Fatalf("f = %s, want %s", got, userURI)
	}
	if got := stringClaim(t, claims, "t"); got != userURI {
		t.Fatalf("t = %s, want %s", got, userURI)
	}
	if got := stringClaim(t, claims, "sub"); got != user {
		t.Fatalf("sub = %s, want %s", got, user)
	}
}

func TestVoiceServiceGenerateJoinToken(t *testing.T) {
	secret := "test-secret"
	issuer := "issuer"
	domain := "example.com"
	user := "user123"

	svc := NewVoiceService(secret, issuer, domain)
	tokenString, err := svc.GenerateToken(user, VoiceTokenActionJoin, "race", "match-456")
	if err != nil {
		t.Fatalf("generate join token error: %v", err)
	}

	claims := parseVoiceClaims(t, tokenString, secret)
	channelURI := fmt.Sprintf("sip:confctl-g-race-match-456@%s", domain)

	if got := stringClaim(t, claims, "vxa"); got != VoiceTokenActionJoin {
		t.Fatalf("vxa = %s, want %s", got, VoiceTokenActionJoin)
	}
	if got := stringClaim(t, claims, "t"); got != channelURI {
		t.Fatalf("t = %s, want %s", got, channelURI)
	}
}

func TestVoiceServiceGenerateTokenRejectsUnknownAction(t *testing.T) {
	svc := NewVoiceService("secret", "issuer", "example.com")
	if _, err := svc.GenerateToken("user", "unknown", "", ""); err == nil {
		t.Fatal("expected error for unsupported action")
	}
}

func TestVoiceServiceGenerateJoinTokenRequiresMatch(t *testing.T) {
	svc := NewVoiceService("secret", "issuer", "example.com")
	if _, err := svc.GenerateToken("user", VoiceTokenActionJoin, "race", ""); err == nil {
		t.Fatal("expected error for empty match id")
	}
}

func TestVoiceServiceGenerateTokenRequiresConfig(t *testing.T) {
	svc := NewVoiceService("", "issuer", "example.com")
	if _, err := svc.GenerateToken("user", VoiceTokenActionLogin, "", ""); err == nil {
		t.Fatal("expected error for missing voice config")
	}
}

func parseVoiceClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}

func stringClaim(t *testing.T, claims jwt.MapClaims, name string) string {
	t.Helper()
	value, ok := claims[name]
	if !ok {
		t.Fatalf("missing %s claim", name)
	}
	str, ok := value.(string)
	if !ok {
		t.Fatalf("%s claim is not a string", name)
	}
	return str
}
