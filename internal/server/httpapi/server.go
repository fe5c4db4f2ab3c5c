// Package httpapi exposes the session and user services over a JSON HTTP
// API. Browser clients hold the token pair in HttpOnly cookies; API clients
// may send the access token as a Bearer header instead.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/nihil-template/nihil-auth/internal/logging"
	"github.com/nihil-template/nihil-auth/internal/server/config"
	"github.com/nihil-template/nihil-auth/internal/server/services"
)

type Server struct {
	address   string
	sessions  *services.SessionService
	users     *services.UserService
	logger    logging.Logger
	jwtSecret []byte
	config    *config.Config
}

func NewServer(c *config.Config, l logging.Logger, ss *services.SessionService, us *services.UserService) *Server {
	return &Server{
		address:   c.EndpointAddr,
		logger:    l.With("module", "http_server"),
		sessions:  ss,
		users:     us,
		jwtSecret: []byte(c.AccessTokenSecret),
		config:    c,
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	mux.HandleFunc("POST /auth/signout", s.withAuth(s.handleSignOut))
	mux.HandleFunc("GET /auth/session", s.withAuth(s.handleSession))
	mux.HandleFunc("DELETE /auth/withdraw", s.withAuth(s.handleWithdraw))
	mux.HandleFunc("POST /auth/change-password", s.withAuth(s.handleChangePassword))
	mux.HandleFunc("POST /auth/forgot-password", s.handleForgotPassword)
	mux.HandleFunc("POST /auth/new-password", s.handleNewPassword)

	mux.HandleFunc("GET /users", s.withAuth(s.handleListUsers))
	mux.HandleFunc("GET /users/email/{email}", s.withAuth(s.handleGetUserByEmail))
	mux.HandleFunc("GET /users/{id}", s.withAuth(s.handleGetUser))
	mux.HandleFunc("GET /users/{id}/image", s.withAuth(s.handleUserImage))
	mux.HandleFunc("PATCH /users/me", s.withAuth(s.handleUpdateProfile))
	mux.HandleFunc("POST /users/me/image-upload", s.withAuth(s.handleImageUploadURL))
	mux.HandleFunc("POST /users/me/image", s.withAuth(s.handleAttachImage))

	return mux
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
