// Package respond turns service errors into JSON responses.
package respond

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	finance "carrierpay/pkg/finance/service"
	release "carrierpay/pkg/release/service"
	"carrierpay/pkg/request/repository"
	request "carrierpay/pkg/request/service"
	schedule "carrierpay/pkg/schedule/service"
	"carrierpay/pkg/validate"
)

const NoDataInfo = "No data available."

// NoData is the informational answer of list endpoints when the store
// cannot be read.
func NoData(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"rows": []any{}, "info": NoDataInfo})
}

// IsNoData reports a store that is missing or unreadable.
func IsNoData(err error) bool { return errors.Is(err, repository.ErrNoData) }

func Status(err error) int {
	var ve *validate.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrStaleRevision):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNoData),
		errors.Is(err, request.ErrRowNotFound),
		errors.Is(err, finance.ErrRowNotFound),
		errors.Is(err, schedule.ErrShipmentNotFound),
		errors.Is(err, release.ErrShipmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, schedule.ErrNotSchedulable),
		errors.Is(err, release.ErrReleaseNotAllowed),
		errors.Is(err, release.ErrAlreadyReleased):
		return http.StatusConflict
	case errors.Is(err, schedule.ErrBadPaymentDate),
		errors.Is(err, release.ErrRowNotInShipment):
		return http.StatusBadRequest
	case errors.Is(err, finance.ErrMalformedAmount):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func Error(c echo.Context, err error) error {
	body := echo.Map{"error": err.Error()}
	var ve *validate.ValidationError
	if errors.As(err, &ve) {
		body["fields"] = ve.Fields
	}
	if errors.Is(err, repository.ErrNoData) {
		body["info"] = NoDataInfo
	}
	return c.JSON(Status(err), body)
}
