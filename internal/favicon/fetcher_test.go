package favicon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smallest valid PNG header plus IHDR chunk; enough for sniffing.
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}

func TestHost(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"https://go.dev/blog", "go.dev", false},
		{"http://example.com:8080/x", "example.com", false},
		{"example.org/page", "example.org", false},
		{"  news.ycombinator.com  ", "news.ycombinator.com", false},
		{"", "", true},
		{"file:///etc/hosts", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			host, err := Host(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, host)
		})
	}
}

func TestFetcher_SourceURL(t *testing.T) {
	f := NewFetcher(Options{ProxyURL: "https://icons.example/s2?domain=%s"})

	src, err := f.SourceURL("https://go.dev/doc", "")
	require.NoError(t, err)
	assert.Equal(t, "https://icons.example/s2?domain=go.dev", src)

	src, err = f.SourceURL("https://go.dev/doc", " https://go.dev/favicon.ico ")
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev/favicon.ico", src)

	_, err = NewFetcher(Options{}).SourceURL("https://go.dev", "")
	assert.Error(t, err)
}

func TestFetcher_Fetch(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/icon.png":
			w.Write(pngBytes)
		case "/page.html":
			w.Write([]byte("<html><body>not an icon</body></html>"))
		case "/big.png":
			w.Write(append(append([]byte{}, pngBytes...), make([]byte, 2048)...))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewFetcher(Options{MaxBytes: 1024, UserAgent: "TestAgent/1.0"})
	ctx := context.Background()

	data, err := f.Fetch(ctx, server.URL+"/icon.png")
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "TestAgent/1.0", userAgent)

	_, err = f.Fetch(ctx, server.URL+"/page.html")
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = f.Fetch(ctx, server.URL+"/big.png")
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = f.Fetch(ctx, server.URL+"/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetcher_FetchForLinkUsesProxy(t *testing.T) {
	var asked string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		asked = r.URL.Query().Get("domain")
		w.Write(pngBytes)
	}))
	defer server.Close()

	f := NewFetcher(Options{ProxyURL: server.URL + "/s2?domain=%s"})
	data, err := f.FetchForLink(context.Background(), "https://www.example.com/some/page", "")
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "www.example.com", asked)
}

func TestFetcher_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write(pngBytes)
	}))
	defer server.Close()

	f := NewFetcher(Options{Timeout: 20 * time.Millisecond})
	_, err := f.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "image/png", MIMEType(pngBytes))
	assert.True(t, strings.HasPrefix(MIMEType([]byte("hello")), "text/plain"))
	assert.True(t, IsImage(pngBytes))
	assert.False(t, IsImage(nil))
	assert.False(t, IsImage([]byte("hello")))
}
