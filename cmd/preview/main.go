package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vidarchive/mcp-server/internal/archive"
	"github.com/vidarchive/mcp-server/internal/site"
)

// previewServer serves one archive site the way the static host would,
// plus a small JSON API over the compiled data.
type previewServer struct {
	router chi.Router
	dir    string
	cfg    site.Config
}

func newPreviewServer(dir string, cfg site.Config) *previewServer {
	s := &previewServer{dir: dir, cfg: cfg}
	s.setupRoutes()
	return s
}

func (s *previewServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *previewServer) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/archive", s.handleArchive)
	r.Get("/api/archive/stats", s.handleStats)
	r.Handle("/*", http.FileServer(http.Dir(s.dir)))

	s.router = r
}

func (s *previewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *previewServer) handleArchive(w http.ResponseWriter, r *http.Request) {
	files, err := archive.ReadData(s.cfg.DataPath(s.dir))
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("archive data not available: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

func (s *previewServer) handleStats(w http.ResponseWriter, r *http.Request) {
	files, err := archive.ReadData(s.cfg.DataPath(s.dir))
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("archive data not available: %v", err))
		return
	}

	links := 0
	categories := 0
	uncategorized := 0
	for _, f := range files {
		links += f.LinkCount
		if f.Content != nil {
			categories += len(f.Content.Categories)
			uncategorized += len(f.Content.UncategorizedLinks)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"files":               len(files),
		"links":               links,
		"categories":          categories,
		"uncategorized_links": uncategorized,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func main() {
	var (
		dir        string
		addr       string
		configPath string
	)
	flag.StringVar(&dir, "dir", "", "site directory to serve (default: autodetect)")
	flag.StringVar(&addr, "addr", "", "listen address (default: from site.json or :8787)")
	flag.StringVar(&configPath, "config", "", "site configuration file")
	flag.Parse()

	if dir == "" {
		dir = site.Resolve()
	}
	if configPath == "" {
		configPath = filepath.Join(dir, site.ConfigFile)
	}
	cfg, err := site.LoadOptional(configPath)
	if err != nil {
		log.Fatalf("Failed to load site config: %v", err)
	}
	if addr == "" {
		addr = cfg.Listen
	}

	srv := newPreviewServer(dir, cfg)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Printf("Shutting down preview server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	title := cfg.Title
	if title == "" {
		title = dir
	}
	log.Printf("Serving %s on %s", title, addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
