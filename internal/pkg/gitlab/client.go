// Package gitlab implements the subset of the GitLab REST API v4 used to trigger pipelines and play manual jobs.
//
// The client never retries a request, the retry policy belongs to the caller.
package gitlab

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/keboola/pipeline-trigger/internal/pkg/build"
	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

const (
	DefaultTimeout   = 30 * time.Second
	DialTimeout      = 10 * time.Second
	IdleConnTimeout  = 90 * time.Second
	KeepAlive        = 30 * time.Second
	MaxIdleConns     = 8
	DebugBodyLimit   = 2 * datasize.KB
	apiPathSuffix    = "/api/v4"
	defaultURLScheme = "https://"
)

type Client struct {
	http    *resty.Client
	logger  log.Logger
	baseURL string
}

type config struct {
	logger         log.Logger
	timeout        time.Duration
	transport      http.RoundTripper
	tracerProvider trace.TracerProvider
	userAgent      string
	verbose        bool
}

type Option func(c *config)

func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTimeout sets timeout of each HTTP call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

func WithTransport(transport http.RoundTripper) Option {
	return func(c *config) {
		c.transport = transport
	}
}

// WithTracerProvider sets provider of the HTTP client spans, the global provider is used by default.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = provider
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *config) {
		c.userAgent = userAgent
	}
}

// WithVerbose enables dump of each request and response to the debug log.
func WithVerbose(verbose bool) Option {
	return func(c *config) {
		c.verbose = verbose
	}
}

func NewClient(host, token string, opts ...Option) *Client {
	cfg := config{
		logger:    log.NewNopLogger(),
		timeout:   DefaultTimeout,
		userAgent: fmt.Sprintf("ptrigger/%s", build.BuildVersion),
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.transport == nil {
		cfg.transport = DefaultTransport()
	}
	if cfg.tracerProvider == nil {
		cfg.tracerProvider = otel.GetTracerProvider()
	}

	c := &Client{
		logger:  cfg.logger.WithComponent("http"),
		baseURL: APIURL(host),
	}

	c.http = resty.New()
	c.http.SetLogger(&restyLogger{logger: c.logger})
	c.http.SetBaseURL(c.baseURL)
	c.http.SetAuthToken(token)
	c.http.SetHeader("User-Agent", cfg.userAgent)
	c.http.SetHeader("Accept", "application/json")
	c.http.SetTimeout(cfg.timeout)
	c.http.SetTransport(otelhttp.NewTransport(
		cfg.transport,
		otelhttp.WithTracerProvider(cfg.tracerProvider),
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return "gitlab.api " + req.Method
		}),
	))
	c.http.SetRetryCount(0)

	if cfg.verbose {
		c.http.SetDebug(true)
		c.http.SetDebugBodyLimit(int64(DebugBodyLimit.Bytes()))
	} else {
		c.http.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
			c.logger.Debug(res.Request.Context(), responseToLog(res))
			return nil
		})
	}

	return c
}

// APIURL normalizes the host to the API base URL, for example "gitlab.com" to "https://gitlab.com/api/v4".
func APIURL(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if !strings.Contains(host, "://") {
		host = defaultURLScheme + host
	}
	if !strings.HasSuffix(host, apiPathSuffix) {
		host += apiPathSuffix
	}
	return host
}

func DefaultTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   DialTimeout,
		KeepAlive: KeepAlive,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          MaxIdleConns,
		MaxIdleConnsPerHost:   MaxIdleConns,
		IdleConnTimeout:       IdleConnTimeout,
		TLSHandshakeTimeout:   DialTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// send executes the request and maps a failure to one of the typed errors.
func (c *Client) send(ctx context.Context, req *resty.Request, method, path string) (*resty.Response, error) {
	res, err := req.Execute(method, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrapf(ctxErr, `request "%s %s" interrupted`, method, req.URL)
		}
		if res != nil && res.IsSuccess() {
			return nil, errors.Wrapf(err, `cannot decode response of "%s %s"`, method, req.URL)
		}
		c.logger.Debug(ctx, requestToLog(req, err))
		return nil, &TransientError{RequestError: RequestError{Method: method, URL: req.URL, Message: err.Error(), cause: err}}
	}
	if res.IsError() {
		return nil, newResponseError(res)
	}
	return res, nil
}

func requestToLog(req *resty.Request, err error) string {
	return fmt.Sprintf("HTTP-ERROR\t%s %s | %s", req.Method, req.URL, log.Sanitize(err.Error()))
}

func responseToLog(res *resty.Response) string {
	req := res.Request
	return fmt.Sprintf("HTTP\t%s %s | %d | %s", req.Method, req.URL, res.StatusCode(), res.Time())
}
