package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vidTube/auth"
	"vidTube/errs"
)

func (s *Server) registerUserRoutes(r *mux.Router) {
	r.HandleFunc("/users/c/{userId}", s.handleChannelProfile).Methods("GET")
}

func (s *Server) handleChannelProfile(w http.ResponseWriter, r *http.Request) {
	// Get the channel profile as seen by the requesting user.
	view, err := s.us.ChannelProfile(r.Context(), auth.ActorID(r.Context()), pathParam(r, "userId"))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view, "Channel profile fetched successfully.")
}
