package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"vidTube/auth"
	"vidTube/domain"
	"vidTube/errs"
)

func (s *Server) registerLikeRoutes(r *mux.Router) {
	r.HandleFunc("/likes/toggle/v/{videoId}", s.requireAuth(s.handleToggleLike(s.ls.ToggleVideoLike, "videoId"))).Methods("POST")
	r.HandleFunc("/likes/toggle/c/{commentId}", s.requireAuth(s.handleToggleLike(s.ls.ToggleCommentLike, "commentId"))).Methods("POST")
	r.HandleFunc("/likes/toggle/t/{tweetId}", s.requireAuth(s.handleToggleLike(s.ls.ToggleTweetLike, "tweetId"))).Methods("POST")
	r.HandleFunc("/likes/videos", s.requireAuth(s.handleLikedVideos)).Methods("GET")
}

type toggleLikeFunc func(ctx context.Context, actorID, targetID string) (*domain.LikeStatus, error)

// handleToggleLike returns a handler that likes or unlikes the target named
// by the route variable param.
func (s *Server) handleToggleLike(toggle toggleLikeFunc, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := toggle(r.Context(), auth.ActorID(r.Context()), pathParam(r, param))
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		message := "Like removed successfully."
		if status.IsLiked {
			message = "Like added successfully."
		}
		respond(w, r, http.StatusOK, status, message)
	}
}

func (s *Server) handleLikedVideos(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r, videoPageLimit)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	page, err := s.ls.LikedVideos(r.Context(), auth.ActorID(r.Context()), req)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, page, "Liked videos fetched successfully.")
}
