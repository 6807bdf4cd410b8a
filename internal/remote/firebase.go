package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"golang.org/x/time/rate"
)

// DefaultURLTemplate is the realtime database document holding the markers of a code.
const DefaultURLTemplate = "https://interactive-event-{code}-default-rtdb.europe-west1.firebasedatabase.app/markers.json"

const codePlaceholder = "{code}"

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FirebaseStore keeps the marker document in a Firebase realtime database over its REST API.
type FirebaseStore struct {
	client      HTTPClient    // HTTP client for making requests
	urlTemplate string        // Document URL with a {code} placeholder
	log         *slog.Logger  // Logger for logging operations
	limiter     *rate.Limiter // Outbound rate limiter
}

// NewFirebaseStore creates a Firebase store with its own HTTP client.
// A non-positive rateLimit disables outbound limiting.
func NewFirebaseStore(urlTemplate string, timeout time.Duration, rateLimit int, log *slog.Logger) *FirebaseStore {
	return NewFirebaseStoreWithClient(&http.Client{Timeout: timeout}, urlTemplate, newLimiter(rateLimit), log)
}

// NewFirebaseStoreWithClient allows injecting a custom HTTP client and limiter.
func NewFirebaseStoreWithClient(
	client HTTPClient,
	urlTemplate string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *FirebaseStore {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	if limiter == nil {
		limiter = newLimiter(0)
	}

	return &FirebaseStore{
		client:      client,
		urlTemplate: urlTemplate,
		log:         log,
		limiter:     limiter,
	}
}

func newLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}

// Load fetches the marker document of code. A missing document yields an empty collection.
func (fs *FirebaseStore) Load(ctx context.Context, code string) ([]models.Marker, error) {
	resp, err := fs.do(ctx, http.MethodGet, code, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	markers, err := decodeDocument(resp.Body)
	if err != nil {
		return nil, err
	}

	fs.log.DebugContext(ctx, "Markers loaded from Firebase", "count", len(markers))

	return markers, nil
}

// Save replaces the marker document of code with markers.
func (fs *FirebaseStore) Save(ctx context.Context, code string, markers []models.Marker) error {
	body, err := encodeDocument(markers)
	if err != nil {
		return fmt.Errorf("failed to encode markers: %w", err)
	}

	resp, err := fs.do(ctx, http.MethodPut, code, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	fs.log.DebugContext(ctx, "Markers saved to Firebase", "count", len(markers))

	return nil
}

func (fs *FirebaseStore) do(ctx context.Context, method, code string, body []byte) (*http.Response, error) {
	if err := fs.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit: %w", ErrNetwork, err)
	}

	reqURL, err := fs.documentURL(code)
	if err != nil {
		return nil, err
	}

	var payload io.Reader
	if body != nil {
		payload = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := fs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, redact(reqURL), err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		fs.log.ErrorContext(ctx, "Firebase API error", "method", method, "status", resp.StatusCode, "body", string(msg))
		return nil, fmt.Errorf("%w: firebase returned status %d", ErrNetwork, resp.StatusCode)
	}

	return resp, nil
}

func (fs *FirebaseStore) documentURL(code string) (string, error) {
	raw := strings.ReplaceAll(fs.urlTemplate, codePlaceholder, url.PathEscape(code))

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid document URL: %w", ErrNetwork, err)
	}

	return parsed.String(), nil
}

// redact drops the query string, which may carry an auth token.
func redact(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}

	return rawURL
}
