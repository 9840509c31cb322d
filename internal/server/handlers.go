package server

import (
	"context"
	"strconv"
	"time"

	"rollerstone-site/internal/inquiry"
	"rollerstone-site/internal/pricing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type formattedQuote struct {
	UnitPrice     string `json:"unit_price"`
	SubtotalFinal string `json:"subtotal_final"`
	Tax           string `json:"tax"`
	Total         string `json:"total"`
	Minimum       string `json:"minimum"`
}

type quoteResponse struct {
	pricing.Result
	Currency  string         `json:"currency"`
	Formatted formattedQuote `json:"formatted"`
}

func formatQuote(r pricing.Result) formattedQuote {
	return formattedQuote{
		UnitPrice:     pricing.FormatYen(float64(r.UnitPrice)),
		SubtotalFinal: pricing.FormatYen(r.SubtotalFinal),
		Tax:           pricing.FormatYen(r.Tax),
		Total:         pricing.FormatYen(r.Total),
		Minimum:       pricing.FormatYen(pricing.MinimumSubtotal),
	}
}

// quote runs the memoised engine and records metrics.
func quote(deps *Dependencies, input string) pricing.Result {
	result, cached := deps.Quoter.Quote(input)
	if cached {
		quoteCacheHits.Inc()
	}
	quotesTotal.WithLabelValues(strconv.FormatBool(result.MinimumApplied)).Inc()
	return result
}

// QuoteHandler prices ?area= and returns the breakdown.
func QuoteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result := quote(deps, c.Query("area"))
		return c.JSON(quoteResponse{
			Result:    result,
			Currency:  pricing.Currency.String(),
			Formatted: formatQuote(result),
		})
	}
}

// TiersHandler returns the tier table, flagging the row for ?area=.
func TiersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		area := pricing.ParseArea(c.Query("area"))
		return c.JSON(fiber.Map{
			"data": deps.Quoter.Config().TierRows(area),
		})
	}
}

// ChartHandler returns the unit price series for the chart.
func ChartHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"data": deps.Quoter.Config().ChartSeries(pricing.DefaultChartSamples),
		})
	}
}

// CreateInquiryHandler accepts a contact request for a quoted area.
func CreateInquiryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Inquiries == nil || !deps.Inquiries.Enabled() {
			inquiriesTotal.WithLabelValues("disabled").Inc()
			return errUnavailable(c, inquiry.ErrStorageDisabled.Error())
		}

		var req inquiry.Request
		if err := c.BodyParser(&req); err != nil {
			inquiriesTotal.WithLabelValues("invalid").Inc()
			return errBadRequest(c, "invalid request body")
		}
		req.ClientIP = c.IP()

		inq, err := deps.Inquiries.Submit(c.UserContext(), req)
		if err != nil {
			if apiErr, ok := fromInquiryError(c, err); ok {
				inquiriesTotal.WithLabelValues("rejected").Inc()
				return apiErr
			}
			inquiriesTotal.WithLabelValues("error").Inc()
			deps.Logger.Error("Failed to submit inquiry", zap.Error(err))
			return errInternal(c, "could not save inquiry")
		}

		inquiriesTotal.WithLabelValues("created").Inc()
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":        inq.ID,
			"status":    inq.Status,
			"total":     inq.Total,
			"formatted": pricing.FormatYen(inq.Total.InexactFloat64()),
		})
	}
}

// HealthHandler reports liveness plus the state of each configured backend.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string, len(deps.Checks))
		healthy := true
		for name, check := range deps.Checks {
			if err := check(ctx); err != nil {
				checks[name] = "error: " + err.Error()
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		status, code := "healthy", fiber.StatusOK
		if !healthy {
			status, code = "degraded", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"uptime": time.Since(startedAt).String(),
			"checks": checks,
		})
	}
}
