// Package storage fetches quiz images from remote sources. Fetchers return
// decoded images; a missing object and an undecodable payload surface as
// distinct errors because both are fatal to round construction.
package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	_ "golang.org/x/image/bmp"

	apperrors "go-reveal-quiz/internal/errors"
)

// ImageFetcher retrieves a decoded image addressed by a URL.
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)
}

// HTTPImageFetcher implements ImageFetcher over plain HTTP(S) with bounded
// retries on transient failures.
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher creates an HTTP image fetcher. Connection pooling is
// sized for one-off image downloads rather than sustained traffic.
func NewHTTPImageFetcher(timeout time.Duration) ImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchImage downloads and decodes an image. 5xx responses and transport
// errors are retried up to three attempts; 4xx responses are not.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid image URL", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/gif, image/bmp, */*")
	req.Header.Set("User-Agent", "Go-Reveal-Quiz/1.0")

	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err = h.client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err != nil {
			lastErr = err
			resp = nil
		} else {
			code := resp.StatusCode
			resp.Body.Close()
			resp = nil
			if code == http.StatusNotFound {
				return nil, apperrors.NewNotFoundError(fmt.Sprintf("image not found at %s", imageURL), nil)
			}
			lastErr = fmt.Errorf("unexpected status code %d", code)
			if code >= 400 && code < 500 {
				break
			}
		}

		if attempt < 2 {
			select {
			case <-ctx.Done():
				return nil, apperrors.NewTimeoutError("image fetch cancelled", ctx.Err())
			case <-time.After(time.Duration(attempt+1) * time.Second):
			}
		}
	}
	if resp == nil {
		return nil, apperrors.NewNetworkError("failed to fetch image after 3 attempts", lastErr)
	}
	defer resp.Body.Close()

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to decode fetched image", err)
	}
	return img, nil
}
