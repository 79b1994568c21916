// Package server exposes the dashboard pages over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/config"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/dashboard"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/filter"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/render"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/source"
)

// Renderer renders one page.
type Renderer interface {
	Render(ctx context.Context, slug string, req dashboard.Request) (*render.View, error)
}

// Tables reports and reloads the table cache.
type Tables interface {
	Status() []source.TableStatus
	Refresh(ctx context.Context)
}

// Server holds the HTTP handlers.
type Server struct {
	pages   Renderer
	tables  Tables
	origins []string
	refresh *rate.Limiter
}

// New creates a Server. Refreshes are limited to one per
// cfg.RefreshIntervalSecs; zero disables the limit.
func New(pages Renderer, tables Tables, cfg config.ServerConfig) *Server {
	limit := rate.Inf
	if cfg.RefreshIntervalSecs > 0 {
		limit = rate.Every(time.Duration(cfg.RefreshIntervalSecs) * time.Second)
	}
	return &Server{
		pages:   pages,
		tables:  tables,
		origins: cfg.CORSOrigins,
		refresh: rate.NewLimiter(limit, 1),
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/pages", s.listPages)
		r.Get("/pages/{slug}", s.page)
		r.Get("/pages/{slug}/chart.png", s.chartPNG)
		r.Get("/pages/{slug}/export.xlsx", s.exportXLSX)
		r.Get("/tables", s.listTables)
		r.Post("/refresh", s.refreshTables)
	})
	return r
}

func (s *Server) listPages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.Pages)
}

func (s *Server) listTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tables.Status())
}

func (s *Server) refreshTables(w http.ResponseWriter, r *http.Request) {
	if !s.refresh.Allow() {
		writeError(w, http.StatusTooManyRequests, "refresh rate limit exceeded")
		return
	}
	s.tables.Refresh(r.Context())
	writeJSON(w, http.StatusOK, s.tables.Status())
}

// render runs the page named in the URL. It writes the error response itself
// and returns nil when the page cannot be rendered.
func (s *Server) render(w http.ResponseWriter, r *http.Request) *render.View {
	q := r.URL.Query()
	req := dashboard.Request{
		Selection: filter.ParseSelection(q.Get),
		Axis:      q.Get("eje"),
	}

	v, err := s.pages.Render(r.Context(), chi.URLParam(r, "slug"), req)
	switch {
	case errors.Is(err, dashboard.ErrUnknownPage):
		writeError(w, http.StatusNotFound, "unknown page")
		return nil
	case err != nil:
		zap.L().Error("server: render failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "render failed")
		return nil
	}
	return v
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	if v := s.render(w, r); v != nil {
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) chartPNG(w http.ResponseWriter, r *http.Request) {
	v := s.render(w, r)
	if v == nil {
		return
	}

	idx := 0
	if raw := r.URL.Query().Get("chart"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "chart must be a non-negative integer")
			return
		}
		idx = n
	}
	if idx >= len(v.Charts) {
		// Halted pages have no charts; hand back the notices instead.
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "no chart to draw", "notices": v.Notices})
		return
	}

	var buf bytes.Buffer
	if err := render.WritePNG(&buf, v.Charts[idx]); err != nil {
		zap.L().Error("server: png failed", zap.String("page", v.Slug), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "png failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes()) //nolint:errcheck
}

func (s *Server) exportXLSX(w http.ResponseWriter, r *http.Request) {
	v := s.render(w, r)
	if v == nil {
		return
	}

	var buf bytes.Buffer
	if err := render.WriteXLSX(&buf, v); err != nil {
		zap.L().Error("server: xlsx failed", zap.String("page", v.Slug), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "xlsx failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+v.Slug+`.xlsx"`)
	w.Write(buf.Bytes()) //nolint:errcheck
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs every request with zap.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
