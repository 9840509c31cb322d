package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rollerstone-site/internal/gallery"
)

var (
	galleryCasesDir string
	galleryOutDir   string
	galleryClassic  bool
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Before/after case gallery",
}

var galleryBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render case records into static pages",
	Long: `Render every case JSON file into works/case_{id}.html plus the
gallery_works.html index.

Examples:
  rollerstone gallery build
  rollerstone gallery build --cases ./cases --out ./public --classic`,
	RunE: func(cmd *cobra.Command, args []string) error {
		casesDir := galleryCasesDir
		if casesDir == "" {
			casesDir = cfg.Site.CasesDir
		}
		outDir := galleryOutDir
		if outDir == "" {
			outDir = cfg.Site.Dir
		}

		result, err := buildGallery(cmd.Context(), casesDir, outDir, galleryClassic)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d case pages and %s\n", len(result.Pages), result.Index)
		return nil
	},
}

func init() {
	galleryBuildCmd.Flags().StringVar(&galleryCasesDir, "cases", "", "directory of case JSON files (default CASES_DIR)")
	galleryBuildCmd.Flags().StringVar(&galleryOutDir, "out", "", "output directory (default SITE_DIR)")
	galleryBuildCmd.Flags().BoolVar(&galleryClassic, "classic", false, "render the dark-only page without themes, chips, video or extra pairs")

	galleryCmd.AddCommand(galleryBuildCmd)
}

func buildGallery(ctx context.Context, casesDir, outDir string, classic bool) (gallery.BuildResult, error) {
	caps := gallery.FullCapabilities()
	if classic {
		caps = gallery.ClassicCapabilities()
	}

	renderer, err := gallery.NewRenderer(gallery.Options{
		Caps:    caps,
		BackURL: cfg.Site.GalleryIndexURL,
		CTAURL:  cfg.Site.CTAURL,
	})
	if err != nil {
		return gallery.BuildResult{}, err
	}

	log.Info("Building gallery",
		zap.String("cases", casesDir),
		zap.String("out", outDir),
		zap.Bool("classic", classic))

	return gallery.NewBuilder(renderer, log).BuildDir(ctx, casesDir, outDir)
}
