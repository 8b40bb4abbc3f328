package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/canvas/internal/asset"
	"github.com/inamate/canvas/internal/config"
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/editor"
	"github.com/inamate/canvas/internal/export"
	"github.com/inamate/canvas/internal/host"
	mw "github.com/inamate/canvas/internal/middleware"
	"github.com/inamate/canvas/internal/render"
	"github.com/inamate/canvas/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	db, err := store.Open(cfg.StorePath)
	if err != nil {
		slog.Error("open store", "error", err, "path", cfg.StorePath)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	doc, found := db.LoadDocument(ctx, cfg.DocumentKey)
	if !found && cfg.SampleDocument {
		doc = document.NewSampleDocument()
		slog.Info("seeded sample document", "key", cfg.DocumentKey)
	}

	assetHandler := asset.NewHandler(cfg.AssetDir)

	fonts, err := render.NewFonts()
	if err != nil {
		slog.Error("load fonts", "error", err)
		os.Exit(1)
	}
	var imageClient *http.Client
	if cfg.RemoteImages {
		imageClient = &http.Client{Timeout: 10 * time.Second}
	}
	images := render.NewImageCache(assetHandler, imageClient)
	rasterizer := render.NewRasterizer(images, fonts, cfg.ExportBackground)

	ed := editor.New(doc, editor.Options{
		HistoryLimit: cfg.HistoryLimit,
		Rasterizer:   rasterizer,
	})

	session := host.NewSession(ed, db, cfg.DocumentKey, cfg.SaveInterval)
	sessionDone := session.Done()
	go session.Run(ctx)

	hostHandler := host.NewHandler(session, cfg.AllowedOrigins)
	exportHandler := export.NewHandler(session)

	r := mux.NewRouter()
	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/document", hostHandler.GetDocument).Methods("GET")
	r.HandleFunc("/document", hostHandler.PutDocument).Methods("PUT")
	r.HandleFunc("/export.png", exportHandler.ExportPNG).Methods("GET")

	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST")
	r.HandleFunc("/assets/{file}", assetHandler.Remove(func(ctx context.Context, url string) (bool, error) {
		var used bool
		err := session.Do(ctx, func(ed *editor.Editor) { used = ed.ReferencesImage(url) })
		return used, err
	}, images.Forget)).Methods("DELETE")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	r.Handle("/ws", hostHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mw.CORS(cfg.AllowedOrigins)(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the session first so the document is saved
		cancel()
		<-sessionDone

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "document", cfg.DocumentKey, "elements", len(doc.Elements))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
