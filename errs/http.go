package errs

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"vidTube/logger"
)

// codes maps application error codes to http status codes.
var codes = map[string]int{
	EINVALIDID:       http.StatusBadRequest,
	EUNAUTHENTICATED: http.StatusUnauthorized,
	EFORBIDDEN:       http.StatusForbidden,
	ENOTFOUND:        http.StatusNotFound,
	EINVALID:         http.StatusBadRequest,
	EINTEGRITY:       http.StatusInternalServerError,
	EUPLOADFAILED:    http.StatusBadGateway,
	EUNAVAILABLE:     http.StatusServiceUnavailable,
	EINTERNAL:        http.StatusInternalServerError,
}

// StatusCode returns the http status code for an application error code.
func StatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// errorResponse is the json body of every failed request. It has the same
// shape as a successful response, plus the error code.
type errorResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
	Code       string      `json:"code"`
}

// ReturnError writes err to the response as json, using the status code that
// belongs to the error's application code. Server-side errors are logged.
func ReturnError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := ErrorCode(err), ErrorMessage(err)
	status := StatusCode(code)
	if status >= http.StatusInternalServerError {
		LogError(r, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(&errorResponse{
		StatusCode: status,
		Message:    message,
		Code:       code,
	}); err != nil {
		LogError(r, err)
	}
}

// LogError logs an error together with the request it occurred in.
func LogError(r *http.Request, err error) {
	logger.Error("http request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("code", ErrorCode(err)),
		zap.Error(err),
	)
}
