package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AngelCh415/adreport/internal/utils"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// Fetcher downloads report exports that live behind a URL.
type Fetcher struct {
	c        HTTPClient
	backoff  utils.Backoff
	maxBytes int64
}

func NewFetcher(c HTTPClient, b utils.Backoff, maxBytes int64) *Fetcher {
	return &Fetcher{c: c, backoff: b, maxBytes: maxBytes}
}

// Fetch GETs url. Transport errors and 5xx are retried; 4xx are not.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("empty url")
	}
	var body []byte
	err := f.backoff.Do(ctx, func(int) error {
		b, err := f.get(ctx, url)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, utils.Permanent(err)
	}
	resp, err := f.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
		if resp.StatusCode < 500 {
			return nil, utils.Permanent(err)
		}
		return nil, err
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > f.maxBytes {
		return nil, utils.Permanent(fmt.Errorf("report larger than %d bytes", f.maxBytes))
	}
	return b, nil
}
