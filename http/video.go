package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vidTube/auth"
	"vidTube/domain"
	"vidTube/errs"
)

func (s *Server) registerVideoRoutes(r *mux.Router) {
	r.HandleFunc("/videos", s.handleListVideos).Methods("GET")
	r.HandleFunc("/videos", s.requireAuth(s.handlePublishVideo)).Methods("POST")
	r.HandleFunc("/videos/toggle/publish/{videoId}", s.requireAuth(s.handleTogglePublish)).Methods("PATCH")
	r.HandleFunc("/videos/{videoId}", s.handleGetVideo).Methods("GET")
	r.HandleFunc("/videos/{videoId}", s.requireAuth(s.handleUpdateVideo)).Methods("PATCH")
	r.HandleFunc("/videos/{videoId}", s.requireAuth(s.handleDeleteVideo)).Methods("DELETE")
}

// maxVideoForm bounds a form carrying a video and a thumbnail.
const maxVideoForm = domain.MaxVideoSize + domain.MaxImageSize + 1<<20

// maxThumbnailForm bounds a form carrying a thumbnail only.
const maxThumbnailForm = domain.MaxImageSize + 1<<20

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r, videoPageLimit)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	filter := domain.VideoFilter{
		Query:   r.URL.Query().Get("query"),
		OwnerID: r.URL.Query().Get("userId"),
	}
	page, err := s.vs.List(r.Context(), auth.ActorID(r.Context()), filter, req)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, page, "Videos fetched successfully.")
}

func (s *Server) handlePublishVideo(w http.ResponseWriter, r *http.Request) {
	// Parse the multipart form.
	if err := parseMultipart(w, r, maxVideoForm); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	// Get the uploaded files.
	video, closeVideo, err := formFile(r, "videoFile", domain.AssetVideo)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer closeVideo()
	thumbnail, closeThumbnail, err := formFile(r, "thumbnail", domain.AssetImage)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer closeThumbnail()

	// Put together the upload.
	upload := &domain.VideoUpload{
		Video:     video,
		Thumbnail: thumbnail,
	}
	if title := formValue(r, "title"); title != nil {
		upload.Title = *title
	}
	if description := formValue(r, "description"); description != nil {
		upload.Description = *description
	}
	if duration := formValue(r, "duration"); duration != nil && *duration != "" {
		d, err := strconv.ParseFloat(*duration, 64)
		if err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "duration must be a number."))
			return
		}
		upload.Duration = d
	}

	// Publish the video.
	view, err := s.vs.Publish(r.Context(), auth.ActorID(r.Context()), upload)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, view, "Video published successfully.")
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	view, err := s.vs.ByID(r.Context(), auth.ActorID(r.Context()), pathParam(r, "videoId"))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view, "Video fetched successfully.")
}

func (s *Server) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	// Parse the multipart form.
	if err := parseMultipart(w, r, maxThumbnailForm); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	// Get the new thumbnail, if there is one.
	thumbnail, closeThumbnail, err := formFile(r, "thumbnail", domain.AssetImage)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer closeThumbnail()

	upd := &domain.VideoUpdate{
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Thumbnail:   thumbnail,
	}
	view, err := s.vs.Update(r.Context(), auth.ActorID(r.Context()), pathParam(r, "videoId"), upd)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view, "Video updated successfully.")
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	if err := s.vs.Delete(r.Context(), auth.ActorID(r.Context()), pathParam(r, "videoId")); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, struct{}{}, "Video deleted successfully.")
}

func (s *Server) handleTogglePublish(w http.ResponseWriter, r *http.Request) {
	status, err := s.vs.TogglePublish(r.Context(), auth.ActorID(r.Context()), pathParam(r, "videoId"))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, status, "Publish status toggled successfully.")
}
