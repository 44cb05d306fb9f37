package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vidTube/auth"
	"vidTube/errs"
)

func (s *Server) registerSubscriptionRoutes(r *mux.Router) {
	r.HandleFunc("/subscriptions/c/{channelId}", s.requireAuth(s.handleToggleSubscription)).Methods("POST")
	r.HandleFunc("/subscriptions/c/{channelId}", s.handleSubscribers).Methods("GET")
	r.HandleFunc("/subscriptions/u/{subscriberId}", s.handleSubscribedChannels).Methods("GET")
}

func (s *Server) handleToggleSubscription(w http.ResponseWriter, r *http.Request) {
	status, err := s.ss.Toggle(r.Context(), auth.ActorID(r.Context()), pathParam(r, "channelId"))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	message := "Unsubscribed successfully."
	if status.IsSubscribed {
		message = "Subscribed successfully."
	}
	respond(w, r, http.StatusOK, status, message)
}

func (s *Server) handleSubscribers(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r, pageLimit)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	page, err := s.ss.Subscribers(r.Context(), auth.ActorID(r.Context()), pathParam(r, "channelId"), req)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, page, "Subscribers fetched successfully.")
}

func (s *Server) handleSubscribedChannels(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r, pageLimit)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	page, err := s.ss.Channels(r.Context(), auth.ActorID(r.Context()), pathParam(r, "subscriberId"), req)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, page, "Subscribed channels fetched successfully.")
}
