package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rollerstone-site/internal/gallery"
	"rollerstone-site/internal/pricing"
	"rollerstone-site/internal/server"
	"rollerstone-site/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var (
	serveMigrate      bool
	serveBuildGallery bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the estimator, the API and the generated gallery",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply database migrations before serving")
	serveCmd.Flags().BoolVar(&serveBuildGallery, "build-gallery", false, "regenerate the gallery from CASES_DIR before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveBuildGallery {
		if _, err := buildGallery(ctx, cfg.Site.CasesDir, cfg.Site.Dir, false); err != nil {
			return err
		}
	}

	b, err := openBackends(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	if serveMigrate && b.storage != nil {
		if err := storage.RunMigrations(ctx, b.storage.DB(), log); err != nil {
			return err
		}
	}

	quoter := pricing.NewQuoter(pricing.NewDefaultPricing(), 0)
	svc := b.inquiryService(quoter)

	srv, err := server.New(cfg.HTTP, &server.Dependencies{
		Quoter:     quoter,
		Inquiries:  svc,
		Logger:     log,
		SiteDir:    siteDirIfPresent(cfg.Site.Dir),
		GalleryURL: "/" + gallery.IndexFile,
		Checks:     b.checks(),
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error("HTTP shutdown failed", zap.Error(err))
	}

	svc.Wait()
	log.Info("Stopped")
	return nil
}

func siteDirIfPresent(dir string) string {
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Warn("Gallery directory not found, static pages disabled", zap.String("dir", dir))
		return ""
	}
	return dir
}
