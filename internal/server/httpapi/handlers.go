package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/thecollekta/airbnb-clone-project/internal/common"
	"github.com/thecollekta/airbnb-clone-project/internal/server/models"
	"github.com/thecollekta/airbnb-clone-project/internal/server/services"
)

type registerRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	PhoneNumber          string `json:"phone_number"`
	Role                 string `json:"role"`
}

type accountResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Bio         string `json:"bio,omitempty"`
	Role        string `json:"role"`
	IsVerified  bool   `json:"is_verified"`
}

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type registerResponse struct {
	Account accountResponse `json:"account"`
	Session sessionResponse `json:"session"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) register(c echo.Context) error {
	req := new(registerRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	res, err := s.identity.Register(c.Request().Context(), &services.RegisterParams{
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		PhoneNumber:          req.PhoneNumber,
		Role:                 models.Role(req.Role),
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Account: accountResponse{
			ID:          res.Account.ID,
			Email:       res.Account.Email,
			FirstName:   res.Account.FirstName,
			LastName:    res.Account.LastName,
			PhoneNumber: res.Account.PhoneNumber,
			Role:        string(res.Account.Role),
			IsVerified:  res.Account.IsVerified,
		},
		Session: sessionResponse{
			AccessToken:  res.Session.AccessToken,
			RefreshToken: res.Session.RefreshToken,
		},
	})
}

func (s *Server) verifyEmail(c echo.Context) error {
	res, err := s.identity.VerifyEmail(c.Request().Context(), c.Param("ref"), c.Param("token"))
	if err != nil {
		return mapServiceError(err)
	}
	if res.Already {
		return c.JSON(http.StatusOK, detailResponse{Detail: "email already verified"})
	}
	return c.JSON(http.StatusOK, detailResponse{Detail: "email verified"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c echo.Context) error {
	req := new(loginRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	pair, err := s.identity.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, sessionResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) refreshSession(c echo.Context) error {
	req := new(refreshRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	pair, err := s.identity.RefreshSession(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if common.IsTokenError(err) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token")
		}
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, sessionResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// requestPasswordReset answers the same 200 body whether or not the address
// is registered.
func (s *Server) requestPasswordReset(c echo.Context) error {
	req := new(passwordResetRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	if err := s.identity.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, detailResponse{
		Detail: "If an account with that email exists, a password reset link has been sent",
	})
}

func (s *Server) checkResetToken(c echo.Context) error {
	if err := s.identity.CheckResetToken(c.Request().Context(), c.Param("ref"), c.Param("token")); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, detailResponse{Detail: "token is valid"})
}

type confirmResetRequest struct {
	Ref                     string `json:"ref"`
	Token                   string `json:"token"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

func (s *Server) confirmPasswordReset(c echo.Context) error {
	req := new(confirmResetRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	err := s.identity.ConfirmPasswordReset(c.Request().Context(), req.Ref, req.Token, req.NewPassword, req.NewPasswordConfirmation)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, detailResponse{Detail: "password has been reset"})
}

type changePasswordRequest struct {
	OldPassword             string `json:"old_password"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

func (s *Server) changePassword(c echo.Context) error {
	req := new(changePasswordRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	err := s.identity.ChangePassword(c.Request().Context(), accountID(c), req.OldPassword, req.NewPassword, req.NewPasswordConfirmation)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, detailResponse{Detail: "password changed"})
}

func (s *Server) getProfile(c echo.Context) error {
	account, err := s.identity.GetProfile(c.Request().Context(), accountID(c))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, profileResponse(account))
}

type updateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Bio         *string `json:"bio"`
}

func (s *Server) updateProfile(c echo.Context) error {
	req := new(updateProfileRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	account, err := s.identity.UpdateProfile(c.Request().Context(), accountID(c), &services.UpdateProfileParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Bio:         req.Bio,
	})
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, profileResponse(account))
}

type avatarUploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

func (s *Server) avatarUploadURL(c echo.Context) error {
	key, url, err := s.avatar.GetUploadURL(c.Request().Context(), accountID(c))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, avatarUploadResponse{Key: key, UploadURL: url})
}

type avatarDownloadResponse struct {
	DownloadURL string `json:"download_url"`
}

func (s *Server) avatarDownloadURL(c echo.Context) error {
	url, err := s.avatar.GetDownloadURL(c.Request().Context(), accountID(c))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, avatarDownloadResponse{DownloadURL: url})
}

func (s *Server) deleteAccount(c echo.Context) error {
	if err := s.identity.DeleteAccount(c.Request().Context(), accountID(c)); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func profileResponse(account *models.Account) accountResponse {
	return accountResponse{
		ID:          account.ID,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		PhoneNumber: account.PhoneNumber,
		Bio:         account.Bio,
		Role:        string(account.Role),
		IsVerified:  account.IsVerified,
	}
}

func bearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", common.ErrMalformedToken
	}
	return strings.TrimSpace(header[len(prefix):]), nil
}
