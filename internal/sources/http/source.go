// Package http provides a data source backed by an HTTP endpoint.
package http

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/samber/lo"
)

const (
	SourceKind     = "http"
	GetStepKind    = "http_get"
	DefaultTimeout = 30 * time.Second
)

var (
	defaultHeaders = map[string]string{
		"User-Agent":      "msds/0.1.0",
		"Accept":          "application/json",
		"Accept-Encoding": "gzip",
	}
)

type Config struct {
	BaseURL  string
	Headers  map[string]string
	Auth     *AuthConfig
	Timeout  time.Duration
	Insecure bool
}

type AuthConfig struct {
	Basic *BasicAuthConfig
}

type BasicAuthConfig struct {
	Username string
	Password string
	Encoded  string
}

type Source struct {
	baseURL    *url.URL
	httpClient *http.Client
	headers    map[string]string
}

type SourceOption func(*Source)

func WithHTTPClient(httpClient *http.Client) SourceOption {
	return func(s *Source) {
		s.httpClient = httpClient
	}
}

func NewSource(cfg Config, opts ...SourceOption) (*Source, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required")
	}

	parsedURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base_url '%s': %w", cfg.BaseURL, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("base_url must use http or https scheme, got: %s", parsedURL.Scheme)
	}

	headers := lo.Assign(defaultHeaders, cfg.Headers)
	if cfg.Auth != nil && cfg.Auth.Basic != nil {
		if cfg.Auth.Basic.Encoded != "" {
			headers["Authorization"] = "Basic " + cfg.Auth.Basic.Encoded
		} else {
			headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.Auth.Basic.Username+":"+cfg.Auth.Basic.Password))
		}
	}

	source := &Source{
		baseURL: parsedURL,
		headers: headers,
	}

	for _, opt := range opts {
		opt(source)
	}

	if source.httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}

		transport := cleanhttp.DefaultPooledTransport()
		if cfg.Insecure {
			if transport.TLSClientConfig == nil {
				transport.TLSClientConfig = &tls.Config{}
			}

			transport.TLSClientConfig.InsecureSkipVerify = true
		}

		source.httpClient = &http.Client{
			Transport: transport,
			Timeout:   timeout,
		}
	}

	return source, nil
}

func (s *Source) Name() string {
	return fmt.Sprintf("%s(%s)", SourceKind, s.baseURL.Host)
}

func (s *Source) Kind() string {
	return SourceKind
}

func (s *Source) Start(ctx context.Context) error {
	return nil
}

func (s *Source) Close(ctx context.Context) error {
	s.httpClient.CloseIdleConnections()
	return nil
}

// Do applies the source's default headers and executes the request.
func (s *Source) Do(req *http.Request) (*http.Response, error) {
	for k, v := range s.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	return s.httpClient.Do(req)
}

func (s *Source) BaseURL() *url.URL {
	return s.baseURL
}
