package openapispec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/janhq/task-api/internal/domain/apispec"
)

// LocalSource derives descriptors from the in-process catalog.
type LocalSource struct {
	builder *Builder
}

// NewLocalSource wraps a catalog as a descriptor source.
func NewLocalSource(builder *Builder) *LocalSource {
	return &LocalSource{builder: builder}
}

func (s *LocalSource) Descriptors(context.Context) ([]apispec.EndpointDescriptor, error) {
	return ToDescriptors(s.builder.Document()), nil
}

// RemoteSource loads the live /openapi.json of a running service on every call.
type RemoteSource struct {
	specURL    string
	httpClient *http.Client
}

// NewRemoteSource creates a source reading baseURL + "/openapi.json".
func NewRemoteSource(baseURL string, timeout time.Duration) *RemoteSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteSource{
		specURL:    strings.TrimRight(baseURL, "/") + "/openapi.json",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchSchema loads and parses the OpenAPI document.
func (s *RemoteSource) FetchSchema(ctx context.Context) (*openapi3.T, error) {
	u, err := url.Parse(s.specURL)
	if err != nil {
		return nil, fmt.Errorf("invalid spec URL: %w", err)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.ReadFromURIFunc = func(_ *openapi3.Loader, location *url.URL) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location.String(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch OpenAPI spec: %s (status %d)", location.String(), resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}

	doc, err := loader.LoadFromURI(u)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI schema: %w", err)
	}
	return doc, nil
}

func (s *RemoteSource) Descriptors(ctx context.Context) ([]apispec.EndpointDescriptor, error) {
	doc, err := s.FetchSchema(ctx)
	if err != nil {
		return nil, err
	}
	return ToDescriptors(doc), nil
}

var (
	_ apispec.Source = (*LocalSource)(nil)
	_ apispec.Source = (*RemoteSource)(nil)
)
