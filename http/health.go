package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vidTube/errs"
)

func (s *Server) registerHealthRoutes(r *mux.Router) {
	r.HandleFunc("/healthcheck", s.handleHealthcheck).Methods("GET")
}

type healthStatus struct {
	Status string `json:"status"`
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, &healthStatus{Status: "ok"}, "Everything is fine.")
}
