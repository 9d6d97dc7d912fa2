package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thecollekta/airbnb-clone-project/internal/common"
	"github.com/thecollekta/airbnb-clone-project/internal/server/models"
)

// Purpose binds an action token to exactly one state transition. The purpose
// is mixed into the MAC input, so a verification token can never be replayed
// as a reset token.
type Purpose string

const (
	PurposeVerifyEmail   Purpose = "verify-email"
	PurposePasswordReset Purpose = "password-reset"
)

// timeNow is a seam for tests.
var timeNow = time.Now

// EncodeAccountRef returns the opaque account reference that accompanies an
// action token in links. It encodes the account id only; no secret material.
func EncodeAccountRef(accountID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(accountID))
}

// DecodeAccountRef reverses EncodeAccountRef. A ref that does not decode
// yields common.ErrMalformedToken.
func DecodeAccountRef(ref string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(ref)
	if err != nil || len(b) == 0 {
		return "", common.ErrMalformedToken
	}
	return string(b), nil
}

// MakeActionToken derives a token from the account's current state and the
// server secret. No token record is persisted: validity is recomputed from
// (account id, password-hash fingerprint, issuance timestamp, purpose).
// Changing the password invalidates every outstanding token for the account
// because the fingerprint goes stale.
func MakeActionToken(account *models.Account, purpose Purpose, secretKey []byte) string {
	return makeActionTokenAt(account, purpose, timeNow(), secretKey)
}

func makeActionTokenAt(account *models.Account, purpose Purpose, issuedAt time.Time, secretKey []byte) string {
	ts := issuedAt.Unix()
	mac := actionMAC(account, purpose, ts, secretKey)
	return strconv.FormatInt(ts, 36) + "." + base64.RawURLEncoding.EncodeToString(mac)
}

// CheckActionToken verifies that token is a currently valid capability for
// the given account and purpose.
//
// Failures: common.ErrMalformedToken for anything that does not parse,
// common.ErrTokenExpired when the issuance timestamp is outside maxAge, and
// common.ErrTokenMismatch when the MAC does not match the account's current
// state (tampering, wrong purpose, or a fingerprint staled by a password
// change).
func CheckActionToken(account *models.Account, token string, purpose Purpose, maxAge time.Duration, secretKey []byte) error {
	tsPart, macPart, found := strings.Cut(token, ".")
	if !found {
		return common.ErrMalformedToken
	}

	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return common.ErrMalformedToken
	}
	givenMAC, err := base64.RawURLEncoding.DecodeString(macPart)
	if err != nil {
		return common.ErrMalformedToken
	}

	if timeNow().Sub(time.Unix(ts, 0)) > maxAge {
		return common.ErrTokenExpired
	}

	wantMAC := actionMAC(account, purpose, ts, secretKey)
	if !hmac.Equal(givenMAC, wantMAC) {
		return common.ErrTokenMismatch
	}

	return nil
}

// actionMAC keys an HMAC-SHA256 over the account id, the password-hash
// fingerprint, the issuance timestamp, and the purpose. The fingerprint is a
// digest of the stored hash rather than the hash itself so the bcrypt text
// never leaves the store layer.
func actionMAC(account *models.Account, purpose Purpose, ts int64, secretKey []byte) []byte {
	fingerprint := sha256.Sum256([]byte(account.PasswordHash))

	h := hmac.New(sha256.New, secretKey)
	fmt.Fprintf(h, "%s\n%x\n%d\n%s", account.ID, fingerprint, ts, purpose)
	return h.Sum(nil)
}
