// Package httpapi serves the wiki search stack as JSON for the web front-end.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/omnieconomy/wiki-mcp/internal/search"
	"github.com/omnieconomy/wiki-mcp/tools"
)

const (
	maxLimit       = 50
	maxBodyBytes   = 4 << 10
	shutdownPeriod = 5 * time.Second
)

// Options configures the API server
type Options struct {
	// RateLimit is the sustained request rate per second. Zero disables limiting.
	RateLimit float64
	Burst     int
}

// Server exposes search, recent searches, popular pages and index stats over HTTP
type Server struct {
	wiki    *tools.Wiki
	limiter *rate.Limiter
	mux     *http.ServeMux
}

// New creates a server over w
func New(w *tools.Wiki, opts Options) *Server {
	s := &Server{wiki: w, mux: http.NewServeMux()}
	if opts.RateLimit > 0 {
		burst := max(opts.Burst, 1)
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/search/recent", s.handleRecent)
	s.mux.HandleFunc("POST /api/search/recent", s.handleAddRecent)
	s.mux.HandleFunc("DELETE /api/search/recent", s.handleClearRecent)
	s.mux.HandleFunc("GET /api/pages/popular", s.handlePopular)
	s.mux.HandleFunc("GET /api/index/stats", s.handleStats)
	return s
}

// Handler returns the API with rate limiting applied
func (s *Server) Handler() http.Handler {
	return s.withRateLimit(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("✓ Wiki API listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type searchResponse struct {
	Query       string               `json:"query"`
	Results     []tools.SearchResult `json:"results"`
	Suggestions []tools.PageLink     `json:"suggestions,omitempty"`
	TimingMs    int64                `json:"timingMs"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	limit := s.wiki.MaxResults
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxLimit {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxLimit))
			return
		}
		limit = n
	}

	opts := search.Options{
		MaxResults:     limit,
		IncludeContent: isTrue(q.Get("content")),
	}
	query := q.Get("q")

	var results []search.Result
	if opts.IncludeContent {
		results = s.wiki.Searcher.SearchContent(r.Context(), query, opts)
	} else {
		results = s.wiki.Searcher.Search(query, opts)
	}

	resp := searchResponse{Query: query, Results: make([]tools.SearchResult, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, tools.NewSearchResult(res))
	}
	if len(results) == 0 {
		resp.Suggestions = s.wiki.Suggestions(query)
	}
	resp.TimingMs = time.Since(start).Milliseconds()

	respond(w, http.StatusOK, resp)
}

type recentResponse struct {
	Queries []string `json:"queries"`
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, recentResponse{Queries: s.wiki.Recent.Recent(r.Context())})
}

func (s *Server) handleAddRecent(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	if strings.TrimSpace(payload.Query) == "" {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	s.wiki.Recent.Add(r.Context(), payload.Query)
	respond(w, http.StatusOK, recentResponse{Queries: s.wiki.Recent.Recent(r.Context())})
}

func (s *Server) handleClearRecent(w http.ResponseWriter, r *http.Request) {
	s.wiki.Recent.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{"pages": s.wiki.PopularPages()})
}

type statsResponse struct {
	Built bool              `json:"built"`
	Stats *tools.IndexStats `json:"stats,omitempty"`
	Docs  int               `json:"fulltextDocs"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{Docs: s.wiki.Fulltext.DocCount()}
	if stats, ok := s.wiki.Indexer.Stats(); ok {
		st := tools.NewIndexStats(stats)
		resp.Built = true
		resp.Stats = &st
	}
	respond(w, http.StatusOK, resp)
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Warning: Failed to write response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}
