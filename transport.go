package walletgo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/digicred/walletgo/internal/common"
)

// HTTPTransport fetches JSON resources from a wallet agent. It supplies raw
// invitation, credential and verification JSON to the decoders; it never
// interprets payloads itself.
type HTTPTransport struct {
	Server  string
	client  *retryablehttp.Client
	headers http.Header
}

// Logger is used for logging. If not set, init() will initialize it to logrus.StandardLogger().
var Logger *logrus.Logger

var transportlogger *log.Logger

func init() {
	logger := logrus.New()
	logger.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
	})
	SetLogger(logger)
}

// SetLogger sets the logger for this package and its subpackages.
func SetLogger(logger *logrus.Logger) {
	Logger = logger
	common.Logger = logger
}

// NewHTTPTransport returns a new HTTPTransport for the given agent base URL.
func NewHTTPTransport(serverURL string) *HTTPTransport {
	if Logger.IsLevelEnabled(logrus.TraceLevel) {
		transportlogger = log.New(Logger.WriterLevel(logrus.TraceLevel), "transport: ", 0)
	} else {
		transportlogger = log.New(io.Discard, "", 0)
	}

	if serverURL != "" && !strings.HasSuffix(serverURL, "/") {
		serverURL += "/"
	}

	client := &retryablehttp.Client{
		Logger:       transportlogger,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 200 * time.Millisecond,
		RetryMax:     2,
		Backoff:      retryablehttp.DefaultBackoff,
		CheckRetry: func(ctx context.Context, resp *http.Response, err error) (bool, error) {
			if cerr := ctx.Err(); cerr != nil {
				return false, cerr
			}
			// Don't retry on 5xx (which retryablehttp does by default)
			return err != nil || resp.StatusCode == 0, err
		},
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
	}

	return &HTTPTransport{
		Server:  serverURL,
		client:  client,
		headers: http.Header{},
	}
}

// SetHeader sets a header to be sent in requests.
func (transport *HTTPTransport) SetHeader(name, val string) {
	transport.headers.Set(name, val)
}

// SetBearerToken sets the Authorization header from an opaque access token.
func (transport *HTTPTransport) SetBearerToken(token string) {
	transport.headers.Set("Authorization", "Bearer "+token)
}

func (transport *HTTPTransport) request(ctx context.Context, url, method string, body io.Reader) (*http.Response, error) {
	var req retryablehttp.Request
	var err error
	req.Request, err = http.NewRequestWithContext(ctx, method, transport.Server+url, body)
	if err != nil {
		return nil, &Error{ErrorCode: ErrorTransport, Err: err}
	}
	req.Header = transport.headers.Clone()
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "walletgo")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := transport.client.Do(&req)
	if err != nil {
		return nil, &Error{ErrorCode: ErrorTransport, Err: err}
	}
	return res, nil
}

// GetBytes performs a GET and returns the raw response body.
func (transport *HTTPTransport) GetBytes(ctx context.Context, url string) ([]byte, error) {
	res, err := transport.request(ctx, url, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, &Error{ErrorCode: ErrorTransport, Err: errors.Errorf("server returned status %d", res.StatusCode)}
	}
	bts, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Error{ErrorCode: ErrorTransport, Err: err}
	}
	return bts, nil
}

// Get performs a GET and unmarshals the JSON response into dest.
func (transport *HTTPTransport) Get(ctx context.Context, url string, dest interface{}) error {
	bts, err := transport.GetBytes(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bts, dest); err != nil {
		return &Error{ErrorCode: ErrorSerialization, Err: err}
	}
	return nil
}

// Post marshals the object to JSON, POSTs it, and unmarshals the response
// into dest when dest is non-nil.
func (transport *HTTPTransport) Post(ctx context.Context, url string, dest, object interface{}) error {
	bts, err := json.Marshal(object)
	if err != nil {
		return &Error{ErrorCode: ErrorSerialization, Err: err}
	}
	res, err := transport.request(ctx, url, http.MethodPost, bytes.NewReader(bts))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return &Error{ErrorCode: ErrorTransport, Err: errors.Errorf("server returned status %d", res.StatusCode)}
	}
	if dest == nil {
		return nil
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &Error{ErrorCode: ErrorTransport, Err: err}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &Error{ErrorCode: ErrorSerialization, Err: err}
	}
	return nil
}
