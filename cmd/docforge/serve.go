package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/CageChen/docforge/internal/handler"
	"github.com/CageChen/docforge/internal/watcher"
)

//go:embed web/*
var webFS embed.FS

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Serve compiled documents with live reload",
	Long: `Serves every document of the configured folders. A path argument replaces
the configured folders with that single directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP server port")
	serveCmd.Flags().StringP("style", "s", "", "Default style preset")
	serveCmd.Flags().String("accent", "", "Default accent color")
	serveCmd.Flags().Bool("watch", true, "Enable file watching and live reload")
	serveCmd.Flags().Bool("open", false, "Open browser on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := applyServeFlags(cmd, args); err != nil {
		return err
	}

	log.Info().Str("config", cfg.GetConfigFilePath()).Int("folders", len(cfg.Folders)).Msg("docforge serve")
	for i, f := range cfg.Folders {
		ev := log.Info().Int("id", i).Str("alias", f.Alias).Str("path", f.Path)
		if f.GitRef != "" {
			ev = ev.Str("ref", f.GitRef)
		}
		ev.Msg("serving folder")
	}

	var ws *handler.WSHandler
	if cfg.Watch {
		ws = handler.NewWSHandler(cfg)
		w, err := watcher.New(cfg)
		if err != nil {
			return fmt.Errorf("create file watcher: %w", err)
		}
		w.OnChange(ws.OnFileChange)
		if err := w.Start(); err != nil {
			return fmt.Errorf("start file watcher: %w", err)
		}
		defer func() { _ = w.Stop() }()
		log.Info().Msg("file watcher enabled")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(requestLogger())
	handler.Register(r, cfg, ws)

	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return fmt.Errorf("load web assets: %w", err)
	}
	r.NoRoute(gin.WrapH(http.FileServer(http.FS(webContent))))

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	if cfg.Open {
		go openBrowser(url)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("url", url).Msg("server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// applyServeFlags merges serve flags over the loaded configuration.
func applyServeFlags(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("style") {
		cfg.Style, _ = flags.GetString("style")
	}
	if flags.Changed("accent") {
		cfg.Accent, _ = flags.GetString("accent")
	}
	if flags.Changed("watch") {
		cfg.Watch, _ = flags.GetBool("watch")
	}
	if flags.Changed("open") {
		cfg.Open, _ = flags.GetBool("open")
	}

	// A path argument overrides saved folders.
	if len(args) == 1 {
		cfg.Folders = nil
		if err := cfg.AddFolder(args[0], "", "", nil); err != nil {
			return err
		}
	}
	if len(cfg.Folders) == 0 {
		if err := cfg.AddFolder(".", "", "", nil); err != nil {
			return err
		}
	}

	return cfg.Validate()
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default: // linux, etc.
		cmd = "xdg-open"
		args = []string{url}
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		log.Warn().Err(err).Msg("cannot open browser")
	}
}

