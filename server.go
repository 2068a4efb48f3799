package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SintaW245/unsplash-gallery/internal/gallery"
	"github.com/SintaW245/unsplash-gallery/internal/history"
	"github.com/SintaW245/unsplash-gallery/internal/query"
	"github.com/SintaW245/unsplash-gallery/internal/unsplash"
	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const sessionCookie = "gallery_session"

type sessionKey struct{}

type server struct {
	svc        *gallery.Service
	prettyJson bool
	log        *logrus.Entry
}

func newRouter(svc *gallery.Service, prettyJson bool) http.Handler {
	s := &server{
		svc:        svc,
		prettyJson: prettyJson,
		log:        logrus.WithField("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Not Found"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/photos", s.handleHome)
		r.Get("/photos/{id}", s.handlePhoto)
		r.Post("/photos/{id}/download", s.handleDownload)
		r.Get("/search", s.handleSearch)
		r.Get("/collections", s.handleCollections)
		r.Get("/users", s.handleUsers)
		r.Get("/suggest", s.handleSuggest)
		r.Get("/popular", s.handlePopular)
		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleClearHistory)
	})
	return r
}

// serve runs the HTTP server until ctx is cancelled.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("server shutdown error")
		}
	}()

	logrus.Infof("Starting Server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(started).Round(time.Millisecond),
		}).Debug("request")
	})
}

// withSession makes sure every API request carries a session id, minting
// one in a cookie on first visit.
func (s *server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(sessionCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey{}).(string)
	return id
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	page, err := s.svc.Home(r.Context(), intParam(r, "page", 1))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, page)
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	opts, err := searchOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.svc.Search(r.Context(), sessionID(r), r.URL.Query().Get("q"), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, page)
}

func (s *server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.Photo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, detail)
}

func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	target, err := s.svc.TrackDownload(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]string{"url": target})
}

func (s *server) handleCollections(w http.ResponseWriter, r *http.Request) {
	page, err := s.svc.Collections(r.Context(), r.URL.Query().Get("q"), intParam(r, "page", 1))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, page)
}

func (s *server) handleUsers(w http.ResponseWriter, r *http.Request) {
	page, err := s.svc.Users(r.Context(), r.URL.Query().Get("q"), intParam(r, "page", 1))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, page)
}

func (s *server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string][]string{
		"suggestions": s.svc.Suggest(r.URL.Query().Get("q")),
	})
}

func (s *server) handlePopular(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.svc.Popular())
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	log, err := s.svc.History(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]history.Log{"history": log})
}

func (s *server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ClearHistory(r.Context(), sessionID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func searchOptions(r *http.Request) (query.SearchOptions, error) {
	q := r.URL.Query()
	opts := query.SearchOptions{
		Page:    intParam(r, "page", query.DefaultPage),
		PerPage: intParam(r, "per_page", query.DefaultPerPage),
	}
	var err error
	if opts.Orientation, err = query.ParseOrientation(q.Get("orientation")); err != nil {
		return opts, err
	}
	if opts.Color, err = query.ParseColor(q.Get("color")); err != nil {
		return opts, err
	}
	if opts.OrderBy, err = query.ParseOrderBy(q.Get("order_by")); err != nil {
		return opts, err
	}
	return opts, nil
}

// intParam falls back to def for missing or unparsable values.
func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

type errorBody struct {
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Status   int      `json:"upstreamStatus,omitempty"`
	Messages []string `json:"upstreamMessages,omitempty"`
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Kind: "internal", Message: err.Error()}

	var verr *query.ValidationError
	var apiErr *unsplash.APIError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body.Kind = verr.Kind.String()
	case errors.As(err, &apiErr):
		body.Kind = apiErr.Kind.String()
		body.Status = apiErr.Status
		body.Messages = apiErr.Messages()
		switch {
		case unsplash.IsNotFound(err):
			status = http.StatusNotFound
		case apiErr.Kind == unsplash.KindTimeout:
			status = http.StatusGatewayTimeout
		default:
			status = http.StatusBadGateway
		}
	case errors.Is(err, unsplash.ErrMissingPhotoID):
		status = http.StatusBadRequest
		body.Kind = "invalid_request"
	case errors.Is(err, gallery.ErrNoDownload):
		status = http.StatusNotFound
		body.Kind = "not_found"
	case errors.Is(err, history.ErrSessionStore):
		status = http.StatusServiceUnavailable
		body.Kind = "session_store"
	}

	entry := s.log.WithFields(logrus.Fields{"path": r.URL.Path, "status": status})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.WithError(err).Debug("request rejected")
	}
	s.writeJSON(w, r, status, map[string]errorBody{"error": body})
}

func (s *server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	body := brotli.HTTPCompressor(w, r)
	defer body.Close()
	w.WriteHeader(status)

	enc := json.NewEncoder(body)
	indent := ""
	if s.prettyJson {
		indent = "  "
	}
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		s.log.WithError(err).Warn("failed to encode response")
	}
}
