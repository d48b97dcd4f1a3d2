package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// hopHeaders are connection-level headers that must not be forwarded
// between the client and the upstream.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// ProxyHandler forwards every non-API request to the configured backend,
// preserving method, path, query, headers, and body. Responses come back
// byte-for-byte except for Cache-Control, which is always forced to
// no-store so the dashboard never sees stale storefront pages.
type ProxyHandler struct {
	backend    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewProxyHandler creates a ProxyHandler targeting the given backend base
// URL.
func NewProxyHandler(backend *url.URL, timeout time.Duration, logger *slog.Logger) *ProxyHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ProxyHandler{
		backend: backend,
		httpClient: &http.Client{
			Timeout: timeout,
			// The dashboard expects to see the backend's redirects, not
			// follow them server-side.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// Forward proxies the request to the backend under the same path. Any
// upstream failure maps to 502.
func (h *ProxyHandler) Forward(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, r.URL.Path)
}

// ForwardStripped proxies requests routed through the explicit
// /api/proxy/{path...} mount, forwarding only the wildcard remainder.
func (h *ProxyHandler) ForwardStripped(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "/"+r.PathValue("path"))
}

func (h *ProxyHandler) forward(w http.ResponseWriter, r *http.Request, upstreamPath string) {
	target := *h.backend
	target.Path = singleJoin(h.backend.Path, upstreamPath)
	target.RawQuery = r.URL.RawQuery

	var body io.Reader
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		body = r.Body
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), body)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to build upstream request")
		return
	}

	copyHeaders(req.Header, r.Header)
	// Host comes from the target URL, never the inbound request.
	req.Host = ""
	req.Header.Del("Host")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		if r.Context().Err() == context.Canceled {
			return
		}
		h.logger.WarnContext(r.Context(), "upstream request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "upstream unavailable")
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.WarnContext(r.Context(), "proxy response copy interrupted",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}

// copyHeaders copies all headers from src to dst, skipping hop-by-hop
// headers.
func copyHeaders(dst, src http.Header) {
	for name, values := range src {
		if isHopHeader(name) {
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}

func isHopHeader(name string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

// singleJoin joins two URL path segments with exactly one slash.
func singleJoin(a, b string) string {
	switch {
	case strings.HasSuffix(a, "/") && strings.HasPrefix(b, "/"):
		return a + b[1:]
	case !strings.HasSuffix(a, "/") && !strings.HasPrefix(b, "/"):
		return a + "/" + b
	}
	return a + b
}
