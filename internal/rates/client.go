package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
)

// Client инкапсулирует HTTP-взаимодействие с внешним сервисом курсов.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// Quote описывает ответ сервиса курсов по одной паре валют.
type Quote struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Rate   decimal.Decimal `json:"rate"`
}

// NewClient создаёт HTTP-клиент для обращения к сервису курсов по указанному
// адресу. Повторные попытки при сетевых ошибках и ответе 429 выполняет
// retryablehttp.
func NewClient(baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = 5 * time.Second
	rc.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: rc,
	}
}

// Rate запрашивает курс конвертации source -> target у сервиса курсов.
func (c *Client) Rate(ctx context.Context, source, target string) (decimal.Decimal, error) {
	if c == nil || c.baseURL == "" {
		return decimal.Zero, fmt.Errorf("rates client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	url := fmt.Sprintf("%s/api/rates/%s/%s", base, source, target)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return decimal.Zero, fmt.Errorf("no rate for pair %s/%s", source, target)
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return decimal.Zero, fmt.Errorf("decode response: %w", err)
	}

	if !quote.Rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive rate %s for pair %s/%s", quote.Rate, source, target)
	}

	return quote.Rate, nil
}
