package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-homepage/internal/config"
	"github.com/sirupsen/logrus"
)

// WebServer represents the web server
type WebServer struct {
	Router    *gin.Engine
	Config    *config.WebConfig
	StartTime time.Time // set by Serve, used for the uptime on shutdown

	log        *logrus.Entry
	index      *templateRenderer
	httpServer *http.Server
}

// NewServer creates a new web server instance
func NewServer(webconfig *config.WebConfig, log *logrus.Logger) *WebServer {
	if webconfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// unknown methods on a known path answer 405 instead of 404
	router.HandleMethodNotAllowed = true

	server := &WebServer{
		Router: router,
		Config: webconfig,
		log:    log.WithField("component", "web"),
		index: &templateRenderer{
			path:  filepath.Join(webconfig.TemplatesDir, webconfig.IndexTemplate),
			cache: !webconfig.Debug,
		},
	}

	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		server.log.Warnf("Failed to set trusted proxies: %v", err)
	}

	router.Use(server.RequestIDMiddleware())
	router.Use(server.AccessLogMiddleware())
	router.Use(server.RecoveryMiddleware())
	router.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		// IsDevelopment also suppresses the headers; there is no host
		// allow-list or SSL redirect to relax, so it stays off.
		IsDevelopment: false,
	}))

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	s.Router.Static("/static", s.Config.StaticDir)

	s.Router.GET("/", s.homePage)
	s.Router.HEAD("/", s.homePage)
}

// ReloadTemplates drops cached template parses; the next request reads
// the files again.
func (s *WebServer) ReloadTemplates() {
	s.index.Invalidate()
	s.log.Info("templates reloaded")
}

// Start listens on the configured address and serves until ctx is done.
func (s *WebServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Config.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Config.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within Config.ShutdownTimeout.
func (s *WebServer) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.StartTime = time.Now()

	mode := "release"
	if s.Config.Debug {
		mode = "debug"
		s.log.Warn("This is a development server. Do not use it in a production deployment.")
	}
	s.log.Infof("Running on http://%s/ (mode: %s, version: %s)", ln.Addr(), mode, config.AppVersion)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Infof("Shutting down web server (uptime %s)", time.Since(s.StartTime).Round(time.Second))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown web server: %w", err)
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("Web server stopped")
	return nil
}
