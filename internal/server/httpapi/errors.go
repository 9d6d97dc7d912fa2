package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thecollekta/airbnb-clone-project/internal/common"
)

// mapServiceError translates sentinel errors from the service layer into
// HTTP errors. Anything unrecognized becomes an opaque 500.
func mapServiceError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, common.ErrorDuplicateEmail):
		return echo.NewHTTPError(http.StatusConflict, common.ErrorDuplicateEmail.Error())
	case common.IsValidationError(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorWrongOldPassword):
		return echo.NewHTTPError(http.StatusBadRequest, common.ErrorWrongOldPassword.Error())
	case common.IsTokenError(err):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired token")
	case errors.Is(err, common.ErrorInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, common.ErrorInvalidCredentials.Error())
	case errors.Is(err, common.ErrorNotVerified):
		return echo.NewHTTPError(http.StatusUnauthorized, common.ErrorNotVerified.Error())
	case errors.Is(err, common.ErrorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, common.ErrorNotFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
