// Package webapi serves the library over HTTP for the browser front end.
// Reads are public; adding papers needs an administrator session.
package webapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oukeidos/paperslight/internal/apperrors"
	"github.com/oukeidos/paperslight/internal/auth"
	"github.com/oukeidos/paperslight/internal/logger"
	"github.com/oukeidos/paperslight/internal/paper"
)

// Library is the storage the API reads and writes.
type Library interface {
	Papers(ctx context.Context) ([]paper.Paper, error)
	UpdatePaper(ctx context.Context, p paper.Paper) (int64, error)
}

type Server struct {
	lib      Library
	verifier *auth.Verifier
	sessions *sessions
	engine   *gin.Engine
}

func New(lib Library, verifier *auth.Verifier) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		lib:      lib,
		verifier: verifier,
		sessions: newSessions(),
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.Any("/request.php", s.dispatch)

	api := s.engine.Group("/api")
	api.GET("/init", s.handleInit)
	api.POST("/login", s.handleAdminLogin)
	api.POST("/logout", s.handleLogout)
	api.GET("/types", s.handleTypes)
	api.GET("/papers", s.handlePapers)
	api.POST("/papers", s.requireAdmin, s.handleAddPaper)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log := logger.With("addr", addr)
	errCh := make(chan error, 1)
	go func() {
		log.Info("Web API listening", "admin_enabled", s.verifier.Enabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("Web API shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// dispatch serves the legacy request.php?action=... endpoint.
func (s *Server) dispatch(c *gin.Context) {
	switch c.Query("action") {
	case "init":
		s.handleInit(c)
	case "adminlogin":
		if c.Request.Method != http.MethodPost {
			s.abort(c, http.StatusMethodNotAllowed, apperrors.Validation("adminlogin requires POST."))
			return
		}
		s.handleAdminLogin(c)
	case "logout":
		s.handleLogout(c)
	case "gettypes":
		s.handleTypes(c)
	case "getpapers":
		s.handlePapers(c)
	case "addpaper":
		if c.Request.Method != http.MethodPost {
			s.abort(c, http.StatusMethodNotAllowed, apperrors.Validation("addpaper requires POST."))
			return
		}
		if s.requireAdmin(c); c.IsAborted() {
			return
		}
		s.handleAddPaper(c)
	default:
		s.abort(c, http.StatusBadRequest, apperrors.Validation("Unknown action."))
	}
}

func (s *Server) currentUser(c *gin.Context) string {
	id, err := c.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return s.sessions.user(id)
}

func (s *Server) requireAdmin(c *gin.Context) {
	if s.currentUser(c) == "" {
		s.abort(c, http.StatusUnauthorized, apperrors.Auth(errors.New("no admin session")))
	}
}

func (s *Server) abort(c *gin.Context, status int, err error) {
	logger.Warn("Request failed", "path", c.Request.URL.Path, "action", c.Query("action"), "status", status, "error", err)
	c.AbortWithStatusJSON(status, gin.H{"error": apperrors.PublicMessage(err)})
}

func statusFor(err error) int {
	kind, _ := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
