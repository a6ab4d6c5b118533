package sharedhttp

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"tululu/internal/domain"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrRedirected is returned by the redirect policy, the catalog redirects
// unknown ids to a generic page instead of answering with 404.
var ErrRedirected = errors.New("request was redirected")

var Transport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ReadBufferSize:        65536,
	WriteBufferSize:       65536,
	TLSClientConfig: &tls.Config{
		MinVersion: tls.VersionTLS12,
	},
}

// RejectRedirect is a CheckRedirect policy that never follows a redirect.
func RejectRedirect(req *http.Request, _ []*http.Request) error {
	return errors.Wrapf(ErrRedirected, "redirected to %s", req.URL)
}

func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:       timeout,
		Transport:     Transport,
		CheckRedirect: RejectRedirect,
	}
}

// NewThrottle limits requests to one per delay, a zero delay disables it.
func NewThrottle(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// CheckStatusCode classifies the status of a response that was not redirected.
func CheckStatusCode(url string, statusCode int) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil

	// a 3xx that reached us means the redirect policy let it through
	case statusCode >= 300 && statusCode < 400:
		return domain.NewRedirectError(url, errors.Errorf("status code %d", statusCode))

	default:
		return domain.NewHTTPStatusError(url, statusCode)
	}
}

// ClassifyRequestError turns an error returned by an http client into a
// RetrievalError. Context cancellation is returned unchanged.
func ClassifyRequestError(url string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrRedirected) {
		return domain.NewRedirectError(url, err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		var netErr net.Error
		// client timeouts wrap DeadlineExceeded too, those are transport failures
		if !(errors.As(err, &netErr) && netErr.Timeout()) {
			return err
		}
	}

	return domain.NewTransportError(url, err)
}

// ExecRequest sends req and returns the response if it wasn't redirected and has a 2xx status.
func ExecRequest(client *http.Client, req *http.Request) (*http.Response, error) {
	url := req.URL.String()

	resp, err := client.Do(req)
	if err != nil {
		return nil, ClassifyRequestError(url, err)
	}

	// a client without RejectRedirect follows redirects, compare the final url
	if resp.Request != nil && resp.Request.URL.String() != url {
		resp.Body.Close()
		return nil, domain.NewRedirectError(url, errors.Errorf("redirected to %s", resp.Request.URL))
	}

	if err := CheckStatusCode(url, resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}
