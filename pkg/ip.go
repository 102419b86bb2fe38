package pkg

import (
	"net"
	"net/http"
	"regexp"
	"strings"
)

var (
	localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1$`)
)

// IPIsLocal reports loopback and docker bridge gateway addresses,
// which is what requests from a local dev setup look like.
func IPIsLocal(ip string) bool {
	if parsed := net.ParseIP(ip); parsed != nil && parsed.IsLoopback() {
		return true
	}
	return localDockerIpRegex.MatchString(ip)
}

// ClientIP returns the caller IP, preferring proxy headers over the
// connection address. The port is always stripped.
func ClientIP(r *http.Request) string {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		// can hold a chain, the first entry is the client
		ipAddr, _, _ = strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		ipAddr = strings.TrimSpace(ipAddr)
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		return host
	}
	return ipAddr
}
