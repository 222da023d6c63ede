package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pasarde/recipe-app/internal/core/cache"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// Config 定義外部提供者配置
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	Placeholder string
	// Cache memoises successful lookups. Nil disables memoisation.
	Cache cache.Store
}

// NewHTTPClient builds the resty client every provider shares: one attempt
// per call, bounded by the configured timeout.
func NewHTTPClient(cfg Config) *resty.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "recipe-app/1.0")
}

// Get issues a single GET and returns the body of a 200 response. Transport
// errors and non-200 statuses are logged and returned as ProviderUnavailable.
func Get(ctx context.Context, client *resty.Client, name, path string, params map[string]string) ([]byte, error) {
	start := time.Now()

	resp, err := client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		err = common.ErrProviderUnavailable.Wrap(err)
		common.LogProviderCall(name, path, 0, time.Since(start), err)
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		err = common.ErrProviderUnavailable.Wrap(fmt.Errorf("status %d: %s", resp.StatusCode(), truncate(resp.String(), 200)))
		common.LogProviderCall(name, path, resp.StatusCode(), time.Since(start), err)
		return nil, err
	}

	common.LogProviderCall(name, path, resp.StatusCode(), time.Since(start), nil)
	return resp.Body(), nil
}

// WithConstraints adds the optional search filters that are set.
func WithConstraints(params map[string]string, constraints common.SearchConstraints) map[string]string {
	if constraints.MaxReadyTime != "" {
		params["maxReadyTime"] = constraints.MaxReadyTime
	}
	if constraints.Diet != "" {
		params["diet"] = constraints.Diet
	}
	return params
}

// Malformed logs an undecodable provider body and wraps it as MalformedResponse.
func Malformed(name, path string, err error) error {
	err = common.ErrMalformedResponse.Wrap(err)
	common.LogProviderCall(name, path, http.StatusOK, 0, err)
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
