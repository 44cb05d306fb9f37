package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"vidTube/logger"
)

func TestErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("loading video: %w", Errorf(ENOTFOUND, "The video does not exist."))

	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ENOTFOUND, ErrorCode(wrapped))
	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("boom")))
	assert.Equal(t, "The video does not exist.", ErrorMessage(wrapped))
	assert.Equal(t, "Internal error.", ErrorMessage(errors.New("boom")))
	assert.True(t, Is(wrapped, ENOTFOUND))
	assert.False(t, Is(nil, ENOTFOUND))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, EUNAVAILABLE, "The database is currently unavailable.")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store_unavailable: The database is currently unavailable.: connection refused", err.Error())
}

func TestStatusCode(t *testing.T) {
	tests := map[string]int{
		EINVALIDID:       http.StatusBadRequest,
		EUNAUTHENTICATED: http.StatusUnauthorized,
		EFORBIDDEN:       http.StatusForbidden,
		ENOTFOUND:        http.StatusNotFound,
		EINVALID:         http.StatusBadRequest,
		EUPLOADFAILED:    http.StatusBadGateway,
		EUNAVAILABLE:     http.StatusServiceUnavailable,
		EINTEGRITY:       http.StatusInternalServerError,
		"unknown":        http.StatusInternalServerError,
	}
	for code, status := range tests {
		assert.Equal(t, status, StatusCode(code), code)
	}
}

func TestReturnError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	r := httptest.NewRequest(http.MethodGet, "/api/v1/videos/x", nil)
	w := httptest.NewRecorder()
	ReturnError(w, r, Errorf(EFORBIDDEN, "You are not allowed to change this content."))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, float64(http.StatusForbidden), body["statusCode"])
	assert.Equal(t, "You are not allowed to change this content.", body["message"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, EFORBIDDEN, body["code"])
	assert.Nil(t, body["data"])
	// Client errors are not logged.
	assert.Zero(t, logs.Len())

	w = httptest.NewRecorder()
	ReturnError(w, r, errors.New("secret details"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret details")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "/api/v1/videos/x", logs.All()[0].ContextMap()["path"])
}
