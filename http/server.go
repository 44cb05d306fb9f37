package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vidTube/crud"
	"vidTube/domain"
	"vidTube/logger"
)

// TokenVerifier turns a bearer token into the user it was issued for.
type TokenVerifier interface {
	Verify(raw string) (*domain.User, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server provides the http functionality of this app, namely routing,
// request handling, and middleware. It resolves the requesting user before
// handing things over to one of the crud services.
type Server struct {
	router   *mux.Router
	verifier TokenVerifier
	db       Pinger
	us       domain.UserService
	vs       domain.VideoService
	cs       domain.CommentService
	ts       domain.TweetService
	ls       domain.LikeService
	ss       domain.SubscriptionService
	ps       domain.PlaylistService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
// If assetsDir is not empty, the files in it are served below /assets/.
func NewServer(services *crud.Services, verifier TokenVerifier, assetsDir string) *Server {
	// Construct a new Server with a gorilla router and the services passed in.
	s := &Server{
		router:   mux.NewRouter(),
		verifier: verifier,
		db:       services,
		us:       services.User,
		vs:       services.Video,
		cs:       services.Comment,
		ts:       services.Tweet,
		ls:       services.Like,
		ss:       services.Subscription,
		ps:       services.Playlist,
	}

	// Middleware that needs to run on every request.
	s.router.Use(requestID, logRequests)

	// Uploaded media files.
	if assetsDir != "" {
		s.router.PathPrefix("/assets/").
			Handler(http.StripPrefix("/assets/", http.FileServer(http.Dir(assetsDir)))).
			Methods("GET", "HEAD")
	}

	// Register routes of the api.
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(setContentTypeJSON, s.checkUser)
	s.registerHealthRoutes(api)
	s.registerVideoRoutes(api)
	s.registerCommentRoutes(api)
	s.registerTweetRoutes(api)
	s.registerLikeRoutes(api)
	s.registerSubscriptionRoutes(api)
	s.registerPlaylistRoutes(api)
	s.registerUserRoutes(api)

	s.router.NotFoundHandler = http.HandlerFunc(handleNotFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)
	return s
}

// ServeHTTP makes the Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Run listens and serves on the specified port until ctx is done, then shuts
// the server down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("http server stopped")
	return nil
}
