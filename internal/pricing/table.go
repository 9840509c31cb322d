package pricing

import (
	"fmt"
	"strconv"
)

// DefaultChartSamples are the areas plotted by the unit price chart.
var DefaultChartSamples = []float64{10, 15, 20, 25, 30, 40, 50, 63, 80}

// ChartPoint is one sample of the unit price curve.
type ChartPoint struct {
	Area  float64 `json:"area"`
	Price int64   `json:"price"`
}

// ChartSeries looks up the unit price at each sample area.
func (cfg Config) ChartSeries(samples []float64) []ChartPoint {
	points := make([]ChartPoint, 0, len(samples))
	for _, area := range samples {
		points = append(points, ChartPoint{
			Area:  area,
			Price: cfg.UnitPrice(area),
		})
	}
	return points
}

// TierRow is a display row of the price table.
type TierRow struct {
	Label   string   `json:"label"`
	MinArea float64  `json:"min_area"`
	MaxArea *float64 `json:"max_area"` // nil for the unbounded tier
	Price   int64    `json:"price"`
	Current bool     `json:"current"`
}

// TierRows renders the tier table for display, flagging the row area falls
// in. A row starts one m² above the previous bound, and the first row starts
// at SubMinimumArea.
func (cfg Config) TierRows(area float64) []TierRow {
	rows := make([]TierRow, 0, len(cfg.Tiers))

	for i, tier := range cfg.Tiers {
		minArea := cfg.SubMinimumArea
		if i > 0 {
			minArea = cfg.Tiers[i-1].MaxArea + 1
		}

		row := TierRow{
			MinArea: minArea,
			Price:   tier.Price,
		}
		if tier.Unbounded() {
			row.Label = fmt.Sprintf("%s㎡以上", formatArea(minArea))
			row.Current = area >= minArea
		} else {
			maxArea := tier.MaxArea
			row.MaxArea = &maxArea
			row.Label = fmt.Sprintf("%s㎡〜%s㎡", formatArea(minArea), formatArea(maxArea))
			row.Current = area >= minArea && area <= maxArea
		}
		rows = append(rows, row)
	}
	return rows
}

func formatArea(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
