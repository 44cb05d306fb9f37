package http

import (
	"encoding/json"
	"net/http"

	"vidTube/errs"
)

// response is the json body of every successful request.
type response struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// respond writes data wrapped in the response envelope.
func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}, message string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(&response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	}); err != nil {
		errs.LogError(r, err)
	}
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	errs.ReturnError(w, r, errs.Errorf(errs.ENOTFOUND, "Route %s %s does not exist.", r.Method, r.URL.Path))
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	if err := json.NewEncoder(w).Encode(&response{
		StatusCode: http.StatusMethodNotAllowed,
		Message:    "Method " + r.Method + " is not allowed here.",
	}); err != nil {
		errs.LogError(r, err)
	}
}
