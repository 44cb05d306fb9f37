package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vidTube/auth"
	"vidTube/errs"
)

func (s *Server) registerCommentRoutes(r *mux.Router) {
	r.HandleFunc("/comments/{videoId}", s.handleVideoComments).Methods("GET")
	r.HandleFunc("/comments/{videoId}", s.requireAuth(s.handleCreateComment)).Methods("POST")
	r.HandleFunc("/comments/c/{commentId}", s.requireAuth(s.handleUpdateComment)).Methods("PATCH")
	r.HandleFunc("/comments/c/{commentId}", s.requireAuth(s.handleDeleteComment)).Methods("DELETE")
}

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (s *Server) handleVideoComments(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r, commentPageLimit)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	page, err := s.cs.ByVideo(r.Context(), auth.ActorID(r.Context()), pathParam(r, "videoId"), req)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, page, "Comments fetched successfully.")
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var body commentRequest
	if err := decode(w, r, &body); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	view, err := s.cs.Create(r.Context(), auth.ActorID(r.Context()), pathParam(r, "videoId"), body.Content)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, view, "Comment added successfully.")
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var body commentRequest
	if err := decode(w, r, &body); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	view, err := s.cs.Update(r.Context(), auth.ActorID(r.Context()), pathParam(r, "commentId"), body.Content)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view, "Comment updated successfully.")
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.cs.Delete(r.Context(), auth.ActorID(r.Context()), pathParam(r, "commentId")); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, struct{}{}, "Comment deleted successfully.")
}
