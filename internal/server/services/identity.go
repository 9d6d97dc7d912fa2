// Package services contains server-side business logic. This file implements
// IdentityService, which orchestrates the account lifecycle: registration,
// email verification, login, password reset, authenticated password change,
// account deletion, and session refresh.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/thecollekta/airbnb-clone-project/internal/common"
	"github.com/thecollekta/airbnb-clone-project/internal/logging"
	"github.com/thecollekta/airbnb-clone-project/internal/server/auth"
	"github.com/thecollekta/airbnb-clone-project/internal/server/config"
	notify "github.com/thecollekta/airbnb-clone-project/internal/server/mail"
	"github.com/thecollekta/airbnb-clone-project/internal/server/models"
	"github.com/thecollekta/airbnb-clone-project/internal/server/repositories/accounts"
)

// SessionPair bundles a short-lived access token and a long-lived refresh
// token.
type SessionPair struct {
	AccessToken  string
	RefreshToken string
}

// AccountSummary is the caller-facing projection of an account. It never
// carries the password hash.
type AccountSummary struct {
	ID          string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Role        models.Role
	IsVerified  bool
}

// RegisterParams carries the registration input.
type RegisterParams struct {
	Email                string
	Password             string
	PasswordConfirmation string
	FirstName            string
	LastName             string
	PhoneNumber          string
	Role                 models.Role
}

// RegisterResult is returned on successful registration.
type RegisterResult struct {
	Account AccountSummary
	Session SessionPair
}

// VerifyEmailResult reports whether the verification flag was flipped by this
// call (Verified) or had already been set before (Already).
type VerifyEmailResult struct {
	Verified bool
	Already  bool
}

// UpdateProfileParams carries optional profile mutations; nil fields are
// left unchanged.
type UpdateProfileParams struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Bio         *string
}

// dummyPasswordHash is compared against when no account exists, so the
// missing-account paths cost the same hash work as the real ones.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// IdentityService provides the account lifecycle operations. It depends on
// the credential store contract, the token codec (auth package), and a
// best-effort Notifier.
type IdentityService struct {
	repo                         accounts.Repository
	notifier                     notify.Notifier
	logger                       logging.Logger
	secretKey                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	actionTokenMaxAge            time.Duration
	bcryptCost                   int
	frontendBaseURL              string
}

// NewIdentityService constructs an IdentityService using the repository,
// notifier, and server config.
func NewIdentityService(repo accounts.Repository, notifier notify.Notifier, logger logging.Logger, cfg *config.Config) *IdentityService {
	return &IdentityService{
		repo:                         repo,
		notifier:                     notifier,
		logger:                       logger.With("module", "identity"),
		secretKey:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		actionTokenMaxAge:            cfg.ActionTokenMaxAge,
		bcryptCost:                   cfg.BcryptCost,
		frontendBaseURL:              cfg.FrontendBaseURL,
	}
}

// Register creates a new, unverified account, dispatches the verification
// email, and returns an initial session pair.
func (s *IdentityService) Register(ctx context.Context, params *RegisterParams) (*RegisterResult, error) {
	email := models.NormalizeEmail(params.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, common.ErrorInvalidEmail
	}
	if err := validatePassword(params.Password, params.PasswordConfirmation); err != nil {
		return nil, err
	}

	role := params.Role
	if role == "" {
		role = models.RoleGuest
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role", common.ErrorMissingField)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	account, err := s.repo.Insert(ctx, &models.Account{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PhoneNumber:  params.PhoneNumber,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return nil, common.ErrorDuplicateEmail
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}

	s.dispatch(ctx, notify.TemplateVerification, account.Email, map[string]string{
		"FirstName":       account.FirstName,
		"VerificationURL": s.verificationURL(account),
	})

	pair, err := s.generateSessionPair(account.ID)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{Account: summarize(account), Session: *pair}, nil
}

// VerifyEmail flips the verification flag for the account named by the
// ref/token pair. Re-submitting after a successful verification reports
// Already=true instead of failing.
func (s *IdentityService) VerifyEmail(ctx context.Context, accountRef, token string) (*VerifyEmailResult, error) {
	account, err := s.accountForActionToken(ctx, accountRef, token, auth.PurposeVerifyEmail)
	if err != nil {
		return nil, err
	}

	if account.IsVerified {
		return &VerifyEmailResult{Verified: true, Already: true}, nil
	}

	account.IsVerified = true
	if _, err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}

	s.dispatch(ctx, notify.TemplateWelcome, account.Email, map[string]string{
		"FirstName": account.FirstName,
	})

	return &VerifyEmailResult{Verified: true}, nil
}

// Login checks credentials and returns a session pair. Unknown emails and
// wrong passwords are indistinguishable to the caller; unverified accounts
// get the distinct ErrorNotVerified.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*SessionPair, error) {
	account, err := s.repo.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn the same hash work as the found path.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrorInvalidCredentials
	}
	if !account.IsActive {
		return nil, common.ErrorInvalidCredentials
	}
	if !account.IsVerified {
		return nil, common.ErrorNotVerified
	}

	return s.generateSessionPair(account.ID)
}

// RequestPasswordReset issues a reset token and dispatches the reset email
// when the address is registered. It reports success either way and performs
// equivalent work on both paths, so callers cannot probe for registered
// addresses.
func (s *IdentityService) RequestPasswordReset(ctx context.Context, email string) error {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(email))

	account, err := s.repo.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "reset request lookup failed", "error", err.Error())
		}
		return nil
	}

	s.dispatch(ctx, notify.TemplatePasswordReset, account.Email, map[string]string{
		"FirstName": account.FirstName,
		"ResetURL":  s.resetURL(account),
	})

	return nil
}

// CheckResetToken verifies a reset token without mutating any state.
func (s *IdentityService) CheckResetToken(ctx context.Context, accountRef, token string) error {
	_, err := s.accountForActionToken(ctx, accountRef, token, auth.PurposePasswordReset)
	return err
}

// ConfirmPasswordReset sets a new password for the account named by a valid
// reset token. The stored hash changing makes the used token stale, so a
// token works at most once.
func (s *IdentityService) ConfirmPasswordReset(ctx context.Context, accountRef, token, newPassword, newPasswordConfirmation string) error {
	account, err := s.accountForActionToken(ctx, accountRef, token, auth.PurposePasswordReset)
	if err != nil {
		return err
	}

	if err := validatePassword(newPassword, newPasswordConfirmation); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	account.PasswordHash = string(hash)
	if _, err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

// ChangePassword rotates the password for an authenticated caller. Existing
// session tokens stay valid; there is no forced re-login.
func (s *IdentityService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword, newPasswordConfirmation string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(oldPassword)); err != nil {
		return common.ErrorWrongOldPassword
	}

	if err := validatePassword(newPassword, newPasswordConfirmation); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	account.PasswordHash = string(hash)
	if _, err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

// DeleteAccount removes the caller's account. Every outstanding token
// referencing it becomes invalid because verification requires the account
// to be found.
func (s *IdentityService) DeleteAccount(ctx context.Context, accountID string) error {
	return s.repo.Delete(ctx, accountID)
}

// RefreshSession validates a refresh token and mints a fresh session pair.
// The previous refresh token is not revoked server-side; it remains usable
// until its own expiry.
func (s *IdentityService) RefreshSession(ctx context.Context, refreshToken string) (*SessionPair, error) {
	accountID, err := auth.GetAccountIDFromToken(refreshToken, auth.TokenTypeRefresh, s.secretKey)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrTokenMismatch
		}
		return nil, fmt.Errorf("looking up account: %w", err)
	}
	if !account.IsActive {
		return nil, common.ErrTokenMismatch
	}

	return s.generateSessionPair(account.ID)
}

// VerifySession resolves an access token to an account id. Pure computation;
// intended for the transport boundary, which then passes the id explicitly.
func (s *IdentityService) VerifySession(accessToken string) (string, error) {
	return auth.GetAccountIDFromToken(accessToken, auth.TokenTypeAccess, s.secretKey)
}

// GetProfile returns the caller's account summary plus profile fields.
func (s *IdentityService) GetProfile(ctx context.Context, accountID string) (*models.Account, error) {
	return s.repo.FindByID(ctx, accountID)
}

// UpdateProfile applies the non-nil fields of params to the caller's
// account.
func (s *IdentityService) UpdateProfile(ctx context.Context, accountID string, params *UpdateProfileParams) (*models.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if params.FirstName != nil {
		account.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		account.LastName = *params.LastName
	}
	if params.PhoneNumber != nil {
		account.PhoneNumber = *params.PhoneNumber
	}
	if params.Bio != nil {
		account.Bio = *params.Bio
	}

	return s.repo.Update(ctx, account)
}

// --- helpers below ---

// accountForActionToken resolves a ref/token pair to an account, masking a
// missing account as a token mismatch so email-based flows do not leak
// account existence.
func (s *IdentityService) accountForActionToken(ctx context.Context, accountRef, token string, purpose auth.Purpose) (*models.Account, error) {
	accountID, err := auth.DecodeAccountRef(accountRef)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrTokenMismatch
		}
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if err := auth.CheckActionToken(account, token, purpose, s.actionTokenMaxAge, s.secretKey); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *IdentityService) generateSessionPair(accountID string) (*SessionPair, error) {
	access, err := auth.GenerateSessionToken(accountID, auth.TokenTypeAccess, s.secretKey, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := auth.GenerateSessionToken(accountID, auth.TokenTypeRefresh, s.secretKey, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &SessionPair{AccessToken: access, RefreshToken: refresh}, nil
}

// dispatch hands a notification to the notifier without blocking the caller.
// Delivery failures are logged and otherwise ignored.
func (s *IdentityService) dispatch(ctx context.Context, tmpl notify.Template, recipient string, data map[string]string) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.Notify(ctx, tmpl, recipient, data); err != nil {
			s.logger.Warn(ctx, "notification dispatch failed", "template", string(tmpl), "error", err.Error())
		}
	}()
}

func (s *IdentityService) verificationURL(account *models.Account) string {
	ref := auth.EncodeAccountRef(account.ID)
	token := auth.MakeActionToken(account, auth.PurposeVerifyEmail, s.secretKey)
	return fmt.Sprintf("%s/verify-email/%s/%s", s.frontendBaseURL, ref, token)
}

func (s *IdentityService) resetURL(account *models.Account) string {
	ref := auth.EncodeAccountRef(account.ID)
	token := auth.MakeActionToken(account, auth.PurposePasswordReset, s.secretKey)
	return fmt.Sprintf("%s/password-reset/%s/%s", s.frontendBaseURL, ref, token)
}

func summarize(account *models.Account) AccountSummary {
	return AccountSummary{
		ID:          account.ID,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		PhoneNumber: account.PhoneNumber,
		Role:        account.Role,
		IsVerified:  account.IsVerified,
	}
}

// validatePassword enforces the shared password policy: confirmation must
// match, minimum 8 characters, at least one letter and one digit.
func validatePassword(password, confirmation string) error {
	if password != confirmation {
		return common.ErrorPasswordMismatch
	}
	if len(password) < 8 {
		return common.ErrorWeakPassword
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return common.ErrorWeakPassword
	}

	return nil
}
