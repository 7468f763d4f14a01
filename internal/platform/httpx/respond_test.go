package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSetsContentType(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestProblemUsesProblemJSONMediaType(t *testing.T) {
	rr := httptest.NewRecorder()
	Problem(rr, http.StatusConflict, "Payment Exceeds Balance", "remaining balance is 800 EUR")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `"title":"Payment Exceeds Balance"`)
	assert.Contains(t, rr.Body.String(), `"status":409`)
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	huge := `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(huge))

	var target struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(req, &target)
	require.Error(t, err)
}
