package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/msidibe/gpr/auth"
	"github.com/msidibe/gpr/httpx"
	"github.com/msidibe/gpr/internal/handlers"
	"github.com/msidibe/gpr/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
// qrDir is the directory the external QR generator drops images into; it is
// served as-is under /qr/.
func New(db *gorm.DB, qrDir string) http.Handler {
	mux := http.NewServeMux()

	sessions := auth.NewStore()
	svc := services.NewFacade(db, sessions)

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Perform a lightweight DB check (SELECT 1) – ignore detailed errors in body
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Header().Set("Content-Type", "application/json")
			if _, werr := w.Write([]byte(`{"status":"degraded"}`)); werr != nil {
				_ = werr
			}
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handlers.NewAuthHandler(svc).Register(mux)
	handlers.NewPieceHandler(svc).Register(mux)

	// QR images are produced by an external collaborator keyed by qr_filename;
	// the server only hands out the files.
	mux.Handle("GET /qr/", http.StripPrefix("/qr/", http.FileServer(http.Dir(qrDir))))

	// Root placeholder
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, werr := w.Write([]byte("GPR API - voir /api/pieces")); werr != nil {
			_ = werr
		}
	})
	//revive:enable:unused-parameter

	return sessions.Middleware(withRecover(withLogging(mux)))
}

// Simple middleware logging & recovery kept private to this package to avoid duplication.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
