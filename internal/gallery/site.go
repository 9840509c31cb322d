package gallery

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	WorksDir  = "works"
	IndexFile = "gallery_works.html"
)

// Builder renders a directory of case records into a static site.
type Builder struct {
	renderer *Renderer
	logger   *zap.Logger
}

func NewBuilder(renderer *Renderer, logger *zap.Logger) *Builder {
	return &Builder{renderer: renderer, logger: logger}
}

// BuildResult lists the pages written by one build.
type BuildResult struct {
	Index string
	Pages []string
}

// BuildDir loads every case in casesDir and writes the site under outDir.
func (b *Builder) BuildDir(ctx context.Context, casesDir, outDir string) (BuildResult, error) {
	cases, err := LoadDir(casesDir)
	if err != nil {
		return BuildResult{}, err
	}
	return b.Build(ctx, cases, outDir)
}

// Build writes outDir/works/case_{id}.html for each case and the index page.
func (b *Builder) Build(ctx context.Context, cases []Case, outDir string) (BuildResult, error) {
	worksDir := filepath.Join(outDir, WorksDir)
	if err := os.MkdirAll(worksDir, 0o755); err != nil {
		return BuildResult{}, fmt.Errorf("create %s: %w", worksDir, err)
	}

	var result BuildResult
	var buf bytes.Buffer
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		buf.Reset()
		if err := b.renderer.RenderCase(&buf, c); err != nil {
			return result, err
		}
		path := filepath.Join(worksDir, c.FileName())
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return result, fmt.Errorf("write %s: %w", path, err)
		}
		result.Pages = append(result.Pages, path)

		sections := Classify(c.Photos)
		b.logger.Debug("Case page written",
			zap.String("case_id", c.ID),
			zap.String("path", path),
			zap.Bool("slider", sections.HasSlider()),
			zap.Int("sub_photos", len(sections.Subs)))
	}

	buf.Reset()
	if err := b.renderer.RenderIndex(&buf, cases); err != nil {
		return result, err
	}
	result.Index = filepath.Join(outDir, IndexFile)
	if err := os.WriteFile(result.Index, buf.Bytes(), 0o644); err != nil {
		return result, fmt.Errorf("write %s: %w", result.Index, err)
	}

	b.logger.Info("Gallery built",
		zap.Int("cases", len(cases)),
		zap.String("out_dir", outDir))
	return result, nil
}
