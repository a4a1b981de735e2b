package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"ai-outfit-planner-be/internal/pkg/logger"
)

// Loader failure kinds. Callers branch on these with errors.Is.
var (
	ErrNotFound    = errors.New("catalog not found")
	ErrUnreachable = errors.New("catalog source unreachable")
	ErrMalformed   = errors.New("catalog malformed")
)

// DefaultCacheTTL bounds how long parsed catalogs stay valid.
const DefaultCacheTTL = 5 * time.Minute

// CacheStats is a snapshot of loader cache behavior.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// Loader fetches and parses clothing catalogs from a local path or an
// HTTP URL, caching parsed results per path for the configured TTL.
type Loader struct {
	client *http.Client
	cache  *gocache.Cache
	ttl    time.Duration
	log    logger.ILogger

	mu     sync.Mutex
	hits   int64
	misses int64
}

func NewLoader(ttl time.Duration, log logger.ILogger) *Loader {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  gocache.New(ttl, 10*time.Minute),
		ttl:    ttl,
		log:    log,
	}
}

// Load returns the parsed catalog for path, from cache when fresh.
func (l *Loader) Load(ctx context.Context, path string) (*Catalog, error) {
	if cached, found := l.cache.Get(path); found {
		l.mu.Lock()
		l.hits++
		l.mu.Unlock()
		return cached.(*Catalog), nil
	}
	l.mu.Lock()
	l.misses++
	l.mu.Unlock()

	text, err := l.LoadCsv(ctx, path)
	if err != nil {
		return nil, err
	}
	items, err := l.Parse(text)
	if err != nil {
		return nil, err
	}

	cat := New(items)
	l.cache.Set(path, cat, gocache.DefaultExpiration)
	return cat, nil
}

// LoadCsv fetches the raw CSV content without parsing it.
func (l *Loader) LoadCsv(ctx context.Context, path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return l.fetchRemote(ctx, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("%w: read %s: %v", ErrUnreachable, path, err)
	}
	return string(raw), nil
}

func (l *Loader) fetchRemote(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d from %s", ErrUnreachable, resp.StatusCode, url)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return string(raw), nil
}

// Parse maps CSV rows by column header. Rows whose column count differs
// from the header are skipped with a warning; the header plus at least
// one data row is required.
func (l *Loader) Parse(text string) ([]Item, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1 // ragged rows are handled below, not fatal

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: need a header and at least one data row", ErrMalformed)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, required := range []string{"sku", "name", "category"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, required)
		}
	}

	cell := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	items := make([]Item, 0, len(records)-1)
	for i, row := range records[1:] {
		if len(row) != len(header) {
			if l.log != nil {
				l.log.Warn("CatalogLoader", "Skipping row with mismatched column count", map[string]interface{}{
					"row": i + 2, "columns": len(row), "expected": len(header),
				})
			}
			continue
		}

		sku := cell(row, "sku")
		if sku == "" {
			if l.log != nil {
				l.log.Warn("CatalogLoader", "Skipping row with empty sku", map[string]interface{}{"row": i + 2})
			}
			continue
		}

		price, _ := strconv.ParseFloat(cell(row, "price"), 64)
		if price < 0 {
			price = 0
		}

		var tags []string
		if rawTags := cell(row, "tags"); rawTags != "" {
			for _, t := range strings.FieldsFunc(rawTags, func(r rune) bool { return r == '|' || r == ';' }) {
				if t = strings.TrimSpace(t); t != "" {
					tags = append(tags, t)
				}
			}
		}

		items = append(items, Item{
			Sku:                sku,
			Name:               cell(row, "name"),
			Category:           NormalizeCategory(cell(row, "category")),
			Price:              price,
			Colors:             cell(row, "colors"),
			WeatherSuitability: cell(row, "weathersuitability"),
			Formality:          cell(row, "formality"),
			Layering:           cell(row, "layering"),
			Tags:               tags,
			Notes:              cell(row, "notes"),
			Image:              cell(row, "image"),
			ProductUrl:         cell(row, "producturl"),
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no usable data rows", ErrMalformed)
	}
	return items, nil
}

// Stats returns a snapshot of cache hit/miss counters.
func (l *Loader) Stats() CacheStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return CacheStats{Hits: l.hits, Misses: l.misses, Entries: l.cache.ItemCount()}
}
