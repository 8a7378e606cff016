// Package extractor fetches and validates the backend's interface schema.
package extractor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"go.trai.ch/zerr"
)

const backoffSeed = 500 * time.Millisecond

// DelayFunc suspends the caller between retry attempts. The default waits
// on a real timer; tests inject a deterministic one so the bounded-retry
// behavior can be verified without wall-clock waits.
type DelayFunc func(ctx context.Context, d time.Duration) error

// SleepDelay is the default DelayFunc. It returns early when the context
// is cancelled.
func SleepDelay(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ ports.Extractor = (*Extractor)(nil)

// Extractor implements ports.Extractor over HTTP.
type Extractor struct {
	client   *http.Client
	attempts int
	delay    DelayFunc
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient overrides the HTTP client (used for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) { e.client = c }
}

// WithDelay overrides the inter-retry delay function (used for testing).
func WithDelay(d DelayFunc) Option {
	return func(e *Extractor) { e.delay = d }
}

// New creates an Extractor that retries transient failures up to
// attempts times, with exponential backoff seeded at 500ms, and bounds
// each request by timeout.
func New(attempts int, timeout time.Duration, opts ...Option) *Extractor {
	if attempts <= 0 {
		attempts = domain.DefaultRetryAttempts
	}
	e := &Extractor{
		client:   &http.Client{Timeout: timeout},
		attempts: attempts,
		delay:    SleepDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches the schema document and returns a validated Schema.
// Transport errors and non-2xx responses are retried up to the bound and
// then surfaced as domain.ErrSchemaUnavailable. A response that arrives
// but fails parsing or the shape check is domain.ErrSchemaInvalid and is
// never retried.
func (e *Extractor) Extract(ctx context.Context, endpoint string) (*domain.Schema, error) {
	var lastErr error

	for attempt := 1; attempt <= e.attempts; attempt++ {
		if attempt > 1 {
			backoff := backoffSeed << (attempt - 2)
			if err := e.delay(ctx, backoff); err != nil {
				return nil, zerr.Wrap(err, domain.ErrSchemaUnavailable.Error())
			}
		}

		body, err := e.fetch(ctx, endpoint)
		if err != nil {
			lastErr = err
			continue
		}

		// The document arrived; parse and shape failures are permanent,
		// resending the same request cannot fix a malformed document.
		return parseDocument(body)
	}

	unavailable := zerr.With(domain.ErrSchemaUnavailable, "endpoint", endpoint)
	unavailable = zerr.With(unavailable, "attempts", e.attempts)
	if lastErr != nil {
		return nil, zerr.Wrap(lastErr, unavailable.Error())
	}
	return nil, unavailable
}

func (e *Extractor) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build schema request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, zerr.Wrap(err, "schema request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, zerr.With(zerr.New("schema request returned error status"), "status_code", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read schema response")
	}
	return body, nil
}

// wire types for the schema document

type wireDocument struct {
	Info       *wireInfo           `json:"info"`
	Types      map[string]wireType `json:"types"`
	Operations []wireOperation     `json:"operations"`
}

type wireInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type wireType struct {
	Fields map[string]wireField `json:"fields"`
}

type wireField struct {
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type wireOperation struct {
	Name      string   `json:"name"`
	Method    string   `json:"method"`
	Path      string   `json:"path"`
	Request   *wireRef `json:"request"`
	Response  *wireRef `json:"response"`
	Streaming bool     `json:"streaming"`
}

type wireRef struct {
	Type  string `json:"type"`
	Array bool   `json:"array"`
}

// parseDocument validates the minimal required shape: a top-level types
// object and an operations array, which may both be empty.
func parseDocument(body []byte) (*domain.Schema, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSchemaInvalid.Error())
	}
	if _, ok := top["types"]; !ok {
		return nil, zerr.With(domain.ErrSchemaInvalid, "missing", "types")
	}
	if _, ok := top["operations"]; !ok {
		return nil, zerr.With(domain.ErrSchemaInvalid, "missing", "operations")
	}

	var doc wireDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSchemaInvalid.Error())
	}

	schema := &domain.Schema{
		Types:      make(map[string]domain.TypeDef, len(doc.Types)),
		Operations: make([]domain.Operation, 0, len(doc.Operations)),
	}
	if doc.Info != nil {
		schema.Title = doc.Info.Title
		schema.Version = doc.Info.Version
	}

	for name, t := range doc.Types {
		def := domain.TypeDef{Fields: make([]domain.Field, 0, len(t.Fields))}
		for fieldName, f := range t.Fields {
			def.Fields = append(def.Fields, domain.Field{
				Name:     fieldName,
				Type:     f.Type,
				Optional: !f.Required,
			})
		}
		schema.Types[name] = def
	}

	for _, op := range doc.Operations {
		if op.Name == "" || op.Method == "" || op.Path == "" {
			return nil, zerr.With(domain.ErrSchemaInvalid, "operation", op.Name)
		}
		schema.Operations = append(schema.Operations, domain.Operation{
			Name:      op.Name,
			Method:    op.Method,
			Path:      op.Path,
			Request:   toRef(op.Request),
			Response:  toRef(op.Response),
			Streaming: op.Streaming,
		})
	}

	schema.Normalize()
	return schema, nil
}

func toRef(r *wireRef) domain.TypeRef {
	if r == nil {
		return domain.TypeRef{}
	}
	return domain.TypeRef{Name: r.Type, Array: r.Array}
}
