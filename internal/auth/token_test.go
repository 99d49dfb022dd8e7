package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestTokenPairRoundTrip проверяет выпуск и разбор пары токенов.
func TestTokenPairRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", "syncscript", time.Minute, time.Hour)
	userID := uuid.New()
	refreshID := uuid.New()

	pair, err := manager.NewTokenPair(userID, refreshID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := manager.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("expected valid access token, got %v", err)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}

	refreshClaims, err := manager.ParseRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("expected valid refresh token, got %v", err)
	}
	if refreshClaims.ID != refreshID.String() {
		t.Fatalf("unexpected refresh token id: %s", refreshClaims.ID)
	}
}

// TestTokenTypeMismatch проверяет, что refresh-токен не проходит как access.
func TestTokenTypeMismatch(t *testing.T) {
	manager := NewTokenManager("test-secret", "syncscript", time.Minute, time.Hour)

	pair, err := manager.NewTokenPair(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := manager.ParseAccessToken(pair.RefreshToken); err == nil {
		t.Fatal("expected error for token type mismatch")
	}
}

// TestTokenHashCompare проверяет хэширование refresh-токена.
func TestTokenHashCompare(t *testing.T) {
	hash := HashToken("opaque-token")

	if !CompareTokenHash(hash, "opaque-token") {
		t.Fatal("expected hash to match")
	}
	if CompareTokenHash(hash, "other-token") {
		t.Fatal("expected hash mismatch")
	}
}
