package http_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/ascendo/trainboard/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteError(w, 404, "NOT_FOUND", "Problem not found")

	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Problem not found", resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Code)
	assert.Nil(t, resp.Timeout)
}

func TestWriteErrorOmitsTimeout(t *testing.T) {
	w := httptest.NewRecorder()
	pkghttp.WriteUnauthorized(w, "INVALID_CREDENTIALS", "Invalid credentials")

	assert.Equal(t, 401, w.Code)
	assert.NotContains(t, w.Body.String(), "timeout")
}

func TestWriteRateLimited(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteRateLimited(w, "BANNED", "Too many failed login attempts", 7200)

	assert.Equal(t, 429, w.Code)
	assert.Equal(t, "7200", w.Header().Get("Retry-After"))

	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "BANNED", resp.Code)
	require.NotNil(t, resp.Timeout)
	assert.Equal(t, int64(7200), *resp.Timeout)
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteJSON(w, 201, map[string]string{"token": "abc"})

	assert.Equal(t, 201, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"token":"abc"}`, w.Body.String())
}
