// Package favicon downloads website icons, either from an explicit URL or
// through a favicon proxy keyed by the link's host name.
package favicon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrNoHost is returned when a link URL has no host to ask the proxy about.
	ErrNoHost = errors.New("link URL has no host")
	// ErrTooLarge is returned when the icon exceeds the configured size cap.
	ErrTooLarge = errors.New("favicon exceeds size limit")
	// ErrNotImage is returned when the downloaded bytes are not an image.
	ErrNotImage = errors.New("favicon is not an image")
)

// Options configures a Fetcher. Zero values fall back to sane defaults.
type Options struct {
	ProxyURL  string // fmt template receiving the host name
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// Fetcher downloads favicons over HTTP.
type Fetcher struct {
	proxyURL   string
	maxBytes   int64
	userAgent  string
	httpClient *http.Client
}

// NewFetcher creates a favicon fetcher.
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 512 * 1024
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "LinkDepot/1.0"
	}

	return &Fetcher{
		proxyURL:  opts.ProxyURL,
		maxBytes:  opts.MaxBytes,
		userAgent: opts.UserAgent,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// SourceURL picks where to download the icon from: the explicit URL when
// one was given, otherwise the proxy asked about the link's host.
func (f *Fetcher) SourceURL(linkURL, explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit, nil
	}
	if f.proxyURL == "" {
		return "", fmt.Errorf("no favicon proxy configured")
	}

	host, err := Host(linkURL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(f.proxyURL, url.QueryEscape(host)), nil
}

// Host extracts the host name of a free-form link URL. Scheme-less values
// such as "example.com/page" are accepted.
func Host(linkURL string) (string, error) {
	raw := strings.TrimSpace(linkURL)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse link URL: %w", err)
	}
	if u.Hostname() == "" {
		return "", ErrNoHost
	}
	return u.Hostname(), nil
}

// FetchForLink resolves the source with SourceURL and downloads it.
func (f *Fetcher) FetchForLink(ctx context.Context, linkURL, explicit string) ([]byte, error) {
	src, err := f.SourceURL(linkURL, explicit)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, src)
}

// Fetch downloads an icon and checks that it is a reasonably sized image.
func (f *Fetcher) Fetch(ctx context.Context, iconURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch favicon: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrTooLarge
	}
	if !IsImage(data) {
		return nil, ErrNotImage
	}

	return data, nil
}

// MIMEType sniffs the content type of stored icon bytes.
func MIMEType(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsImage reports whether data looks like any image format browsers accept
// as an icon.
func IsImage(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return strings.HasPrefix(mimetype.Detect(data).String(), "image/")
}
