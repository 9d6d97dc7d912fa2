package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/thecollekta/airbnb-clone-project/internal/common"
	"github.com/thecollekta/airbnb-clone-project/internal/server/models"
)

var actionSecret = []byte("action-secret")

func testAccount() *models.Account {
	return &models.Account{
		ID:           "acct-1",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
}

func TestAccountRef_RoundTrip(t *testing.T) {
	t.Parallel()

	ref := EncodeAccountRef("acct-1")
	id, err := DecodeAccountRef(ref)
	if err != nil {
		t.Fatalf("DecodeAccountRef error: %v", err)
	}
	if id != "acct-1" {
		t.Fatalf("id mismatch: got %q", id)
	}
}

func TestDecodeAccountRef_Malformed(t *testing.T) {
	t.Parallel()

	for _, ref := range []string{"", "%%%", "a b"} {
		if _, err := DecodeAccountRef(ref); !errors.Is(err, common.ErrMalformedToken) {
			t.Fatalf("ref %q: expected common.ErrMalformedToken, got %v", ref, err)
		}
	}
}

func TestCheckActionToken_Valid(t *testing.T) {
	t.Parallel()

	acc := testAccount()
	tok := MakeActionToken(acc, PurposeVerifyEmail, actionSecret)

	if err := CheckActionToken(acc, tok, PurposeVerifyEmail, time.Hour, actionSecret); err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
}

func TestCheckActionToken_PurposeNotInterchangeable(t *testing.T) {
	t.Parallel()

	acc := testAccount()
	tok := MakeActionToken(acc, PurposeVerifyEmail, actionSecret)

	err := CheckActionToken(acc, tok, PurposePasswordReset, time.Hour, actionSecret)
	if !errors.Is(err, common.ErrTokenMismatch) {
		t.Fatalf("expected common.ErrTokenMismatch, got %v", err)
	}
}

func TestCheckActionToken_Expired(t *testing.T) {
	t.Parallel()

	acc := testAccount()
	issuedAt := time.Now().Add(-2 * time.Hour)
	tok := makeActionTokenAt(acc, PurposePasswordReset, issuedAt, actionSecret)

	err := CheckActionToken(acc, tok, PurposePasswordReset, time.Hour, actionSecret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestCheckActionToken_StaleAfterPasswordChange(t *testing.T) {
	t.Parallel()

	acc := testAccount()
	tok := MakeActionToken(acc, PurposePasswordReset, actionSecret)

	// Simulate a completed reset: the stored hash changes, so the bound
	// fingerprint in the token no longer matches.
	acc.PasswordHash = "$2a$10$vutsrqponmlkjihgfedcba"

	err := CheckActionToken(acc, tok, PurposePasswordReset, time.Hour, actionSecret)
	if !errors.Is(err, common.ErrTokenMismatch) {
		t.Fatalf("expected common.ErrTokenMismatch, got %v", err)
	}
}

func TestCheckActionToken_Tampered(t *testing.T) {
	t.Parallel()

	acc := testAccount()
	tok := MakeActionToken(acc, PurposeVerifyEmail, actionSecret)

	err := CheckActionToken(acc, tok+"x", PurposeVerifyEmail, time.Hour, actionSecret)
	if err == nil {
		t.Fatal("expected error for tampered token, got nil")
	}
}

func TestCheckActionToken_Malformed(t *testing.T) {
	t.Parallel()

	acc := testAccount()
	for _, tok := range []string{"", "nodot", "zzz!.mac", "10.%%%"} {
		err := CheckActionToken(acc, tok, PurposeVerifyEmail, time.Hour, actionSecret)
		if !errors.Is(err, common.ErrMalformedToken) {
			t.Fatalf("token %q: expected common.ErrMalformedToken, got %v", tok, err)
		}
	}
}

func TestCheckActionToken_WrongSecret(t *testing.T) {
	t.Parallel()

	acc := testAccount()
	tok := MakeActionToken(acc, PurposeVerifyEmail, actionSecret)

	err := CheckActionToken(acc, tok, PurposeVerifyEmail, time.Hour, []byte("other"))
	if !errors.Is(err, common.ErrTokenMismatch) {
		t.Fatalf("expected common.ErrTokenMismatch, got %v", err)
	}
}
