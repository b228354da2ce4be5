package httperr_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorshare/authcore/core/httperr"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httperr.Write(rec, httperr.ErrInvalidCSRF)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_CSRF_TOKEN", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestWithMessage(t *testing.T) {
	t.Parallel()

	e := httperr.ErrUnauthenticated.WithMessage("session expired")
	assert.Equal(t, "session expired", e.Message)
	assert.Equal(t, "session expired", e.Error())
	// Original is unchanged.
	assert.Equal(t, "authentication required", httperr.ErrUnauthenticated.Message)
}
