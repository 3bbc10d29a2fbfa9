package pdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/cache"
)

// FontProvider supplies the TTF bytes used to render non-Latin glyphs.
// Export fails outright when the provider fails; there is no fallback font.
type FontProvider interface {
	Font(ctx context.Context) ([]byte, error)
}

// HTTPFontProvider fetches the font over HTTP and caches the bytes so
// repeated exports pay for the download once.
type HTTPFontProvider struct {
	url    string
	client *http.Client
	cache  *cache.TTLCache[[]byte]
}

const fontCacheKey = "font"

func NewHTTPFontProvider(url string, timeout time.Duration) *HTTPFontProvider {
	return &HTTPFontProvider{
		url:    url,
		client: &http.Client{Timeout: timeout},
		cache:  cache.NewTTL[[]byte](24 * time.Hour),
	}
}

func (p *HTTPFontProvider) Font(ctx context.Context) ([]byte, error) {
	if data, ok := p.cache.Get(fontCacheKey); ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build font request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch font %s: %w", p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch font %s: unexpected status %d", p.url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read font body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetch font %s: empty body", p.url)
	}

	p.cache.Set(fontCacheKey, data)
	return data, nil
}

// FileFontProvider reads the font from disk, used by the CLI exporter.
type FileFontProvider struct {
	Path string
}

func (p FileFontProvider) Font(context.Context) ([]byte, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	return data, nil
}
