package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

// maxBodyRead caps how much of a response body is retained for marker and
// classifier evaluation.
const maxBodyRead = 1 << 20 // 1MB

// Prober issues single bounded GETs against target endpoints. The zero
// value is not usable; use New.
type Prober struct {
	client *http.Client
}

// New returns a Prober. Probes carry their own per-request timeouts, so the
// shared client has none. Keep-alives are disabled: every probe should
// exercise a fresh connection the way a first page load would.
func New() *Prober {
	return &Prober{
		client: &http.Client{
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
	}
}

// Probe issues one GET against baseURL + endpoint.Path, bounded by the
// endpoint override or the target default timeout. It never returns an
// error: every failure mode is folded into the Result so an unreachable
// host cannot abort a multi-target run.
func (p *Prober) Probe(ctx context.Context, baseURL string, endpoint EndpointSpec, targetTimeout time.Duration) Result {
	timeout := endpoint.Timeout(targetTimeout)
	fullURL := strings.TrimRight(baseURL, "/") + endpoint.Path

	res := Result{
		Endpoint: endpoint.Path,
		URL:      fullURL,
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		res.Error = fmt.Sprintf("invalid request: %v", err)
		return res
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		res.Error = classifyNetworkError(err, timeout)
		return res
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))

	status := resp.StatusCode
	res.HTTPStatus = &status
	res.ResponseTimeMS = &elapsed
	res.ContentLength = len(body)
	res.Body = string(body)
	res.ContentMatched = allMarkersPresent(res.Body, endpoint.ExpectedMarkers)
	if readErr != nil {
		// A connection dropped mid-body is a failed probe, not a short
		// success.
		res.Error = classifyNetworkError(readErr, timeout)
		return res
	}
	res.Success = status >= 200 && status < 400 &&
		(len(endpoint.ExpectedMarkers) == 0 || res.ContentMatched)

	return res
}

// FailureReason renders the printable cause of an unsuccessful probe.
func (r Result) FailureReason() string {
	if r.Error != "" {
		return r.Error
	}
	if r.HTTPStatus != nil {
		if !r.ContentMatched {
			return fmt.Sprintf("HTTP %d (content check failed)", *r.HTTPStatus)
		}
		return fmt.Sprintf("HTTP %d", *r.HTTPStatus)
	}
	return "no response"
}

func allMarkersPresent(body string, markers []string) bool {
	for _, m := range markers {
		if !strings.Contains(body, m) {
			return false
		}
	}
	return true
}

// classifyNetworkError maps transport failures to the stable strings the
// report format uses. Anything unrecognized falls through as the raw
// message.
func classifyNetworkError(err error, timeout time.Duration) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("Connection timeout after %gs", timeout.Seconds())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("Connection timeout after %gs", timeout.Seconds())
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return "Connection refused"
	}
	return err.Error()
}
