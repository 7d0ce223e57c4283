package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"valuesnap/internal/site"
	"valuesnap/internal/waitlist"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the landing page and waitlist API locally",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	store, err := waitlist.NewStore(cfg.WaitlistFilePath)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      site.New(cfg.WebRoot, cfg.ImagesDir, store).Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("serving %s on %s", cfg.WebRoot, cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Printf("server stopped")
	return nil
}
