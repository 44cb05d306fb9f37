package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vidTube/auth"
	"vidTube/errs"
)

func (s *Server) registerTweetRoutes(r *mux.Router) {
	r.HandleFunc("/tweets", s.requireAuth(s.handleCreateTweet)).Methods("POST")
	r.HandleFunc("/tweets/user/{userId}", s.handleUserTweets).Methods("GET")
	r.HandleFunc("/tweets/{tweetId}", s.requireAuth(s.handleUpdateTweet)).Methods("PATCH")
	r.HandleFunc("/tweets/{tweetId}", s.requireAuth(s.handleDeleteTweet)).Methods("DELETE")
}

type tweetRequest struct {
	Content string `json:"content" validate:"required"`
}

func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	// Read the tweet content from the request body.
	var body tweetRequest
	if err := decode(w, r, &body); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Create the tweet for the logged in user.
	view, err := s.ts.Create(r.Context(), auth.ActorID(r.Context()), body.Content)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, view, "Tweet created successfully.")
}

func (s *Server) handleUserTweets(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r, pageLimit)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	view, err := s.ts.ByUser(r.Context(), auth.ActorID(r.Context()), pathParam(r, "userId"), req)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view, "Tweets fetched successfully.")
}

func (s *Server) handleUpdateTweet(w http.ResponseWriter, r *http.Request) {
	var body tweetRequest
	if err := decode(w, r, &body); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	view, err := s.ts.Update(r.Context(), auth.ActorID(r.Context()), pathParam(r, "tweetId"), body.Content)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view, "Tweet updated successfully.")
}

func (s *Server) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	// Delete the tweet, if it belongs to the logged in user.
	if err := s.ts.Delete(r.Context(), auth.ActorID(r.Context()), pathParam(r, "tweetId")); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, struct{}{}, "Tweet deleted successfully.")
}
