package rpc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/qubic/go-transfers-trigger/entities"
	"golang.org/x/time/rate"
)

// HTTPRequester performs plain requests without authentication. Only the method and the url are supplied.
type HTTPRequester struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPRequester creates a requester with the given timeout. A requestsPerSecond value <= 0 disables rate limiting.
func NewHTTPRequester(timeout time.Duration, requestsPerSecond float64) *HTTPRequester {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &HTTPRequester{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

func (r *HTTPRequester) Request(ctx context.Context, method, url string) ([]byte, error) {
	err := r.limiter.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: waiting for rate limiter: %w", entities.ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "creating request [%s %s]", method, url)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling [%s %s]: %w", entities.ErrNetwork, method, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response of [%s %s]: %w", entities.ErrNetwork, method, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: [%s %s] returned status [%d]: %s", entities.ErrNetwork, method, url, resp.StatusCode, string(body))
	}
	return body, nil
}
