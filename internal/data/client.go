package data

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/logger"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// DefaultPriceBaseURL points at a locally run price service; override it
// for a hosted deployment.
const DefaultPriceBaseURL = "http://localhost:8090"

// PriceClient fetches dispatch-price days from the price service.
type PriceClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewPriceClient creates a price API client. The API key is optional for
// services that do not require one.
func NewPriceClient(apiKey, baseURL string) *PriceClient {
	if baseURL == "" {
		baseURL = DefaultPriceBaseURL
	}
	return &PriceClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// PriceAPIError is a typed failure from the price service.
type PriceAPIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // 429 only
}

func (e *PriceAPIError) Error() string {
	return e.Message
}

// FetchDay fetches one region-day of dispatch prices. Responses may be
// served from the development cache when it is enabled.
func (c *PriceClient) FetchDay(region, date string) (model.TradingDay, error) {
	if !ValidRegion(region) {
		return model.TradingDay{}, fmt.Errorf("unknown NEM region %q", region)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return model.TradingDay{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", date, err)
	}

	cache := GetCache()
	key := DayCacheKey(region, date)
	if cache != nil {
		if day, found := cache.Get(key); found {
			logger.S().Debugw("price cache hit", "region", region, "date", date, "intervals", len(day.Intervals))
			return day, nil
		}
	}

	u, err := url.Parse(fmt.Sprintf("%s/v1/prices/%s/%s", c.BaseURL, url.PathEscape(region), url.PathEscape(date)))
	if err != nil {
		return model.TradingDay{}, fmt.Errorf("invalid base URL: %w", err)
	}

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return model.TradingDay{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		logger.S().Warnw("price api request failed", "region", region, "date", date, "err", err)
		return model.TradingDay{}, fmt.Errorf("price api request: %w", err)
	}
	defer resp.Body.Close()

	logger.S().Debugw("price api response",
		"region", region, "date", date,
		"status", resp.StatusCode, "duration", time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return model.TradingDay{}, &PriceAPIError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "unauthorized: invalid API key",
		}
	case http.StatusForbidden:
		return model.TradingDay{}, &PriceAPIError{
			StatusCode: resp.StatusCode,
			Code:       "FORBIDDEN",
			Message:    "forbidden: API key lacks access",
		}
	case http.StatusNotFound:
		return model.TradingDay{}, &PriceAPIError{
			StatusCode: resp.StatusCode,
			Code:       "DAY_NOT_FOUND",
			Message:    fmt.Sprintf("no prices for %s on %s", region, date),
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return model.TradingDay{}, &PriceAPIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("rate limit exceeded, retry after %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return model.TradingDay{}, &PriceAPIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("price api returned %s", resp.Status),
		}
	}

	var doc dayDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return model.TradingDay{}, fmt.Errorf("decode price api response: %w", err)
	}
	if doc.Region == "" {
		doc.Region = region
	}
	if doc.Date == "" {
		doc.Date = date
	}
	day := doc.toTradingDay()

	if cache != nil {
		cache.Set(key, day)
	}
	return day, nil
}
