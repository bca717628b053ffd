// Package web serves the directory session as a browser UI.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/steveyegge/hrs/internal/config"
	"github.com/steveyegge/hrs/internal/directory"
	"github.com/steveyegge/hrs/internal/observability"
	"github.com/steveyegge/hrs/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 5 * time.Second

// Server is the browser UI. Each browser gets its own directory session.
type Server struct {
	cfg      *config.Config
	fetcher  directory.Fetcher
	logger   zerolog.Logger
	sessions *sessionStore
	engine   *gin.Engine
	started  time.Time

	// baseCtx outlives individual requests; background calls use it.
	baseCtx context.Context
	// work tracks background submits and enrichments.
	work sync.WaitGroup
}

// NewServer builds the server and its routes. Background remote calls run
// under ctx.
func NewServer(ctx context.Context, cfg *config.Config, fetcher directory.Fetcher, logger zerolog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger,
		started: time.Now(),
		baseCtx: ctx,
	}
	s.sessions = newSessionStore(func() *directory.Session {
		return directory.NewSession(fetcher,
			directory.WithLogger(logger),
			directory.WithStickyLoading(cfg.StickyLoading),
			directory.WithProvider(cfg.DefaultProvider().ID),
		)
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	if len(cfg.Web.CorsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Web.CorsOrigins,
			AllowMethods:     []string{"GET"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.SetHTMLTemplate(tmpl)
	s.engine = r
	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Wait blocks until all background remote calls have finished.
func (s *Server) Wait() {
	s.work.Wait()
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info().Str("addr", addr).Msg("serving browser UI")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.work.Wait()
	return nil
}

// background runs fn on its own goroutine, tracked by Wait.
func (s *Server) background(fn func(ctx context.Context)) {
	s.work.Add(1)
	go func() {
		defer s.work.Done()
		fn(s.baseCtx)
	}()
}

type panelView struct {
	render.Panel
	Disabled bool `json:"disabled"`
}

type pageData struct {
	Providers    []config.Provider `json:"providers"`
	Selected     string            `json:"provider"`
	Phase        string            `json:"phase"`
	Loading      bool              `json:"loading"`
	Pending      bool              `json:"pending"`
	DialogOpen   bool              `json:"dialog_open"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Panels       []panelView       `json:"panels"`
	Placeholder  string            `json:"-"`
}

func (s *Server) page(b *browserSession) pageData {
	snap := b.session.Snapshot()
	panels := make([]panelView, 0, len(snap.Records))
	for _, p := range render.Panels(snap.Records) {
		panels = append(panels, panelView{Panel: p, Disabled: b.isRequested(p.ID)})
	}
	return pageData{
		Providers:    s.cfg.Providers,
		Selected:     snap.Provider,
		Phase:        snap.Phase.String(),
		Loading:      snap.Loading,
		Pending:      b.hasPending(),
		DialogOpen:   snap.DialogOpen,
		ErrorMessage: snap.ErrorMessage,
		Panels:       panels,
		Placeholder:  render.Placeholder,
	}
}
