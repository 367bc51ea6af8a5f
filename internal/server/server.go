package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/mhxz759/noticias-br/internal/news"
	"github.com/mhxz759/noticias-br/internal/query"
)

//go:embed templates/base.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

//go:embed landing.md
var landingMD []byte

var md = goldmark.New()

// FullTextExtractor is the slice of the content enricher the article
// detail endpoint uses for on-demand expansion.
type FullTextExtractor interface {
	ExtractFullText(ctx context.Context, pageURL, sourceName string) string
}

// Server is the HTTP front of the aggregator: the JSON API plus a
// static landing page.
type Server struct {
	queries  *query.Service
	enricher FullTextExtractor
	landing  []byte
	mux      *http.ServeMux
}

// New creates a Server. The enricher may be nil, which disables the
// expand option on article detail.
func New(queries *query.Service, enricher FullTextExtractor) (*Server, error) {
	landing, err := renderLanding()
	if err != nil {
		return nil, err
	}

	s := &Server{queries: queries, enricher: enricher, landing: landing, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// renderLanding converts the embedded markdown landing page into the
// base template once, at startup.
func renderLanding() ([]byte, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	var body bytes.Buffer
	if err := md.Convert(landingMD, &body); err != nil {
		return nil, fmt.Errorf("rendering landing markdown: %w", err)
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, map[string]any{
		"Content": template.HTML(body.String()), //nolint: gosec
	})
	if err != nil {
		return nil, fmt.Errorf("executing base template: %w", err)
	}
	return out.Bytes(), nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return corsHandler(s.mux)
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Routes
	s.mux.HandleFunc("/api/news", s.handleNews)
	s.mux.HandleFunc("/api/article/", s.handleArticle)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/", s.handleIndex)
}

type newsResponse struct {
	Status       string         `json:"status"`
	TotalResults int            `json:"totalResults"`
	Articles     []news.Article `json:"articles"`
}

type healthResponse struct {
	Status        string     `json:"status"`
	LastUpdate    *time.Time `json:"last_update"`
	TotalArticles int        `json:"total_articles"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := query.Params{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Page:     intParam(q.Get("page")),
		PageSize: intParam(q.Get("pageSize")),
	}

	page, err := s.queries.List(r.Context(), params)
	if err != nil {
		log.Printf("News query failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, newsResponse{
		Status:       "ok",
		TotalResults: page.TotalResults,
		Articles:     page.Articles,
	})
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/article/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "Artigo não encontrado")
		return
	}

	article, err := s.queries.Get(id)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Artigo não encontrado")
			return
		}
		log.Printf("Article lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// article is a copy, so expansion never touches the cached snapshot.
	if r.URL.Query().Get("expand") == "1" && s.enricher != nil {
		if text := s.enricher.ExtractFullText(r.Context(), article.URL, article.Source.Name); text != "" {
			article.Content = text
		}
	}

	writeJSON(w, http.StatusOK, article)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.queries.Status()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		LastUpdate:    h.LastUpdate,
		TotalArticles: h.TotalArticles,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.landing)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message})
}

func intParam(v string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// corsHandler opens the API to browser front ends served from other
// origins, which is how the original consumers load it.
func corsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Serve starts the HTTP server and blocks until ctx is canceled or the
// listener fails.
func Serve(ctx context.Context, queries *query.Service, enricher FullTextExtractor, host string, port int) error {
	srv, err := New(queries, enricher)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("Server listening on http://%s", addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
