package client

import (
	"fmt"
	"net/url"
	"strings"
)

// Origin is the scheme, host and port of the page the client runs in.
type Origin struct {
	Scheme   string
	Hostname string
	Port     string
}

// ParseOrigin reads an origin from a URL such as "https://chat.example.com:8443".
func ParseOrigin(raw string) (Origin, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Origin{}, fmt.Errorf("parse origin: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return Origin{}, fmt.Errorf("parse origin: unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return Origin{}, fmt.Errorf("parse origin: missing host in %q", raw)
	}
	return Origin{Scheme: u.Scheme, Hostname: u.Hostname(), Port: u.Port()}, nil
}

// Secure reports whether the page was served over TLS.
func (o Origin) Secure() bool {
	return o.Scheme == "https" || o.Scheme == "wss"
}

func (o Origin) host() string {
	host := o.Hostname
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if o.Port != "" {
		host += ":" + o.Port
	}
	return host
}

// HTTPURL builds {http|https}://host:port/path for API calls.
func (o Origin) HTTPURL(path string) string {
	scheme := "http"
	if o.Secure() {
		scheme = "https"
	}
	return scheme + "://" + o.host() + "/" + strings.TrimLeft(path, "/")
}

// SocketURL builds {ws|wss}://host:port/path[/segment...].
// The socket scheme mirrors the page scheme. Each segment is escaped so an
// id stays a single path segment even when it contains a slash.
func (o Origin) SocketURL(path string, segments ...string) string {
	scheme := "ws"
	if o.Secure() {
		scheme = "wss"
	}

	parts := make([]string, 0, len(segments)+1)
	if p := strings.Trim(path, "/"); p != "" {
		parts = append(parts, p)
	}
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}

	return scheme + "://" + o.host() + "/" + strings.Join(parts, "/")
}
