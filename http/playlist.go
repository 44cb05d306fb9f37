package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vidTube/auth"
	"vidTube/domain"
	"vidTube/errs"
)

func (s *Server) registerPlaylistRoutes(r *mux.Router) {
	r.HandleFunc("/playlists", s.requireAuth(s.handleCreatePlaylist)).Methods("POST")
	r.HandleFunc("/playlists/user/{userId}", s.handleUserPlaylists).Methods("GET")
	r.HandleFunc("/playlists/add/{videoId}/{playlistId}", s.requireAuth(s.handleAddToPlaylist)).Methods("PATCH")
	r.HandleFunc("/playlists/remove/{videoId}/{playlistId}", s.requireAuth(s.handleRemoveFromPlaylist)).Methods("PATCH")
	r.HandleFunc("/playlists/{playlistId}", s.handleGetPlaylist).Methods("GET")
	r.HandleFunc("/playlists/{playlistId}", s.requireAuth(s.handleUpdatePlaylist)).Methods("PATCH")
	r.HandleFunc("/playlists/{playlistId}", s.requireAuth(s.handleDeletePlaylist)).Methods("DELETE")
}

type createPlaylistRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type updatePlaylistRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body createPlaylistRequest
	if err := decode(w, r, &body); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	view, err := s.ps.Create(r.Context(), auth.ActorID(r.Context()), &domain.PlaylistInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, view, "Playlist created successfully.")
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	view, err := s.ps.ByID(r.Context(), auth.ActorID(r.Context()), pathParam(r, "playlistId"))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view, "Playlist fetched successfully.")
}

func (s *Server) handleUserPlaylists(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r, pageLimit)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	view, err := s.ps.ByUser(r.Context(), auth.ActorID(r.Context()), pathParam(r, "userId"), req)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view, "Playlists fetched successfully.")
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body updatePlaylistRequest
	if err := decode(w, r, &body); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	view, err := s.ps.Update(r.Context(), auth.ActorID(r.Context()), pathParam(r, "playlistId"), &domain.PlaylistUpdate{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view, "Playlist updated successfully.")
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := s.ps.Delete(r.Context(), auth.ActorID(r.Context()), pathParam(r, "playlistId")); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, struct{}{}, "Playlist deleted successfully.")
}

func (s *Server) handleAddToPlaylist(w http.ResponseWriter, r *http.Request) {
	view, err := s.ps.AddVideo(r.Context(), auth.ActorID(r.Context()), pathParam(r, "videoId"), pathParam(r, "playlistId"))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view, "Video added to playlist successfully.")
}

func (s *Server) handleRemoveFromPlaylist(w http.ResponseWriter, r *http.Request) {
	view, err := s.ps.RemoveVideo(r.Context(), auth.ActorID(r.Context()), pathParam(r, "videoId"), pathParam(r, "playlistId"))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view, "Video removed from playlist successfully.")
}
