package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"rollerstone-site/internal/pricing"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.tmpl
var templates embed.FS

const defaultArea = "20"

var features = []string{
	"既存の下地を壊さず施工可能で低コスト",
	"驚異のスピード施工（最短即日〜）",
	"本物の石のようなリアルな質感",
	"カラー・デザインの自由度が極めて高い",
	"強靭な耐久性とメンテナンス性",
}

type tierView struct {
	Label   string
	Price   string
	Current bool
}

type estimatorPage struct {
	Input          string
	Result         pricing.Result
	Formatted      formattedQuote
	Tiers          []tierView
	Chart          []pricing.ChartPoint
	Features       []string
	InquiryEnabled bool
	GalleryURL     string
}

func parseEstimatorTemplate() (*template.Template, error) {
	tmpl, err := template.ParseFS(templates, "templates/estimator.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse estimator template: %w", err)
	}
	return tmpl, nil
}

// EstimatorHandler renders the estimator page for ?area=, defaulting to 20㎡.
func EstimatorHandler(deps *Dependencies, tmpl *template.Template) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := c.Query("area", defaultArea)
		result := quote(deps, input)
		cfg := deps.Quoter.Config()

		rows := cfg.TierRows(result.Area)
		tiers := make([]tierView, 0, len(rows))
		for _, r := range rows {
			tiers = append(tiers, tierView{
				Label:   r.Label,
				Price:   pricing.FormatYen(float64(r.Price)),
				Current: r.Current,
			})
		}

		page := estimatorPage{
			Input:          input,
			Result:         result,
			Formatted:      formatQuote(result),
			Tiers:          tiers,
			Chart:          cfg.ChartSeries(pricing.DefaultChartSamples),
			Features:       features,
			InquiryEnabled: deps.Inquiries != nil && deps.Inquiries.Enabled(),
			GalleryURL:     deps.GalleryURL,
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, page); err != nil {
			return fmt.Errorf("render estimator: %w", err)
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	}
}
