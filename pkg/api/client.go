package api

// Client for a running estimator's JSON API.

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type Quote struct {
	Area           float64 `json:"area"`
	UnitPrice      int64   `json:"unit_price"`
	SubtotalRaw    float64 `json:"subtotal_raw"`
	SubtotalFinal  float64 `json:"subtotal_final"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
	MinimumApplied bool    `json:"minimum_applied"`
	Currency       string  `json:"currency"`
	Formatted      struct {
		UnitPrice     string `json:"unit_price"`
		SubtotalFinal string `json:"subtotal_final"`
		Tax           string `json:"tax"`
		Total         string `json:"total"`
		Minimum       string `json:"minimum"`
	} `json:"formatted"`
}

type InquiryRequest struct {
	Area    string `json:"area"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Message string `json:"message,omitempty"`
}

type InquiryResponse struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Formatted string `json:"formatted"`
}

// Error is a non-success response decoded from the server's error envelope.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) Quote(ctx context.Context, area string) (*Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?area=%s", c.baseURL, url.QueryEscape(area))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var q Quote
	if err := c.do(req, http.StatusOK, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *Client) CreateInquiry(ctx context.Context, in InquiryRequest) (*InquiryResponse, error) {
	body, err := sonic.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/api/v1/inquiries", c.baseURL),
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out InquiryResponse
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, want int, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		apiErr := &Error{Status: resp.StatusCode}
		if err := sonic.Unmarshal(data, apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = "unexpected_status"
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.Debug("API request failed",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode))
		return apiErr
	}

	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
