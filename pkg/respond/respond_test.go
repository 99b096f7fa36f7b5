package respond

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	finance "carrierpay/pkg/finance/service"
	release "carrierpay/pkg/release/service"
	"carrierpay/pkg/request/repository"
	schedule "carrierpay/pkg/schedule/service"
	"carrierpay/pkg/validate"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&validate.ValidationError{Fields: map[string]string{"mbl": "mbl is required"}}, http.StatusBadRequest},
		{fmt.Errorf("commit: %w", repository.ErrStaleRevision), http.StatusConflict},
		{repository.ErrNoData, http.StatusNotFound},
		{fmt.Errorf("x: %w", schedule.ErrShipmentNotFound), http.StatusNotFound},
		{schedule.ErrNotSchedulable, http.StatusConflict},
		{release.ErrReleaseNotAllowed, http.StatusConflict},
		{release.ErrAlreadyReleased, http.StatusConflict},
		{schedule.ErrBadPaymentDate, http.StatusBadRequest},
		{release.ErrRowNotInShipment, http.StatusBadRequest},
		{finance.ErrMalformedAmount, http.StatusUnprocessableEntity},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), tt.err.Error())
	}
}

func TestError_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	err := fmt.Errorf("create: %w", &validate.ValidationError{Fields: map[string]string{"requests[0].mbl": "mbl is required"}})
	require.NoError(t, Error(c, err))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"requests[0].mbl":"mbl is required"`)
}

func TestNoData(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, NoData(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rows":[],"info":"No data available."}`, rec.Body.String())
}
