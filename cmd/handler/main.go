package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/handler"
	"github.com/rcashman/savings-buckets/internal/services"
)

func init() {
	// Balances serialize as bare JSON numbers, matching the snapshot format.
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	storeService, err := services.NewStoreService()
	if err != nil {
		slog.Error("Failed to init StoreService", "error", err)
		os.Exit(1)
	}

	blobService, err := services.NewBlobService()
	if err != nil {
		slog.Error("Failed to init BlobService", "error", err)
		os.Exit(1)
	}

	queueService, err := services.NewQueueService()
	if err != nil {
		slog.Error("Failed to init QueueService", "error", err)
		os.Exit(1)
	}

	deps := &handler.Dependencies{
		Store: storeService,
		Blob:  blobService,
		Queue: queueService,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/state", deps.HandleState)

	mux.HandleFunc("GET /api/buckets", deps.HandleBuckets)
	mux.HandleFunc("POST /api/buckets", deps.HandleBuckets)
	mux.HandleFunc("PATCH /api/buckets", deps.HandleBuckets)
	mux.HandleFunc("DELETE /api/buckets", deps.HandleBuckets)

	mux.HandleFunc("GET /api/transactions", deps.HandleTransactions)
	mux.HandleFunc("POST /api/transactions", deps.HandleTransactions)

	mux.HandleFunc("GET /api/preview", deps.HandlePreview)

	mux.HandleFunc("GET /api/history", deps.HandleHistory)

	mux.HandleFunc("POST /api/import", deps.HandleImport)
	mux.HandleFunc("POST /api/export", deps.HandleExport)

	// Adapter for HTTP Trigger (since enableForwardingHttpRequest is false)
	mux.HandleFunc("/HttpTrigger", deps.HandleHttpTrigger(mux))

	// Use simpler path matching for ProcessQueue to avoid method mismatch issues
	mux.HandleFunc("/ProcessQueue", deps.ProcessQueue)

	mux.HandleFunc("/NightlyTrigger", deps.HandleNightlyTrigger)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		slog.Warn("unmatched request", "method", r.Method, "path", r.URL.Path)
		http.NotFound(w, r)
	})

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT")
	if port == "" {
		port = "8080"
	}

	loggedMux := loggingMiddleware(mux)

	slog.Info("Starting server", "port", port)
	if err := http.ListenAndServe(":"+port, loggedMux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		slog.Info("request completed", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", duration)
	})
}
