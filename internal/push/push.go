// Package push uploads the cache document to a remote endpoint, for
// deployments where the API is served from a host the scraper cannot
// run on. The document is sent verbatim; the receiving side owns any
// schema checks.
package push

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Uploader POSTs cache documents to a fixed URL.
type Uploader struct {
	client *http.Client
	url    string
	token  string
}

// New creates an uploader. token may be empty when the endpoint is
// unauthenticated.
func New(url, token string) *Uploader {
	return &Uploader{
		client: &http.Client{Timeout: 30 * time.Second},
		url:    url,
		token:  token,
	}
}

// Upload sends one cache document, retrying transient failures with
// exponential backoff. Client errors (4xx) are not retried.
func (u *Uploader) Upload(ctx context.Context, document []byte) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, bytes.NewReader(document))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		if u.token != "" {
			req.Header.Set("Authorization", "Bearer "+u.token)
		}

		resp, err := u.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return fmt.Errorf("posting document: %w", err)
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("uploading cache document: %w", err)
	}
	return nil
}
