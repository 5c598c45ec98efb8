package server

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/lawnchairsociety/overworld/internal/config"
)

// ConnStats is a point-in-time view of open connections.
type ConnStats struct {
	Open int `json:"open"`
	IPs  int `json:"ips"`
}

// ConnLimiter caps concurrent connections per client IP and in total.
type ConnLimiter struct {
	mu       sync.Mutex
	perIP    map[string]int
	open     int
	maxPerIP int
	maxTotal int
}

// NewConnLimiter creates a limiter from the connection limits in cfg.
// A zero limit disables that check.
func NewConnLimiter(cfg config.ConnectionsConfig) *ConnLimiter {
	return &ConnLimiter{
		perIP:    make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxTotal,
	}
}

// Acquire reserves a slot for ip. The returned release func frees it and
// is safe to call more than once.
func (c *ConnLimiter) Acquire(ip string) (release func(), ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxTotal > 0 && c.open >= c.maxTotal {
		return nil, false
	}
	if c.maxPerIP > 0 && c.perIP[ip] >= c.maxPerIP {
		return nil, false
	}

	c.perIP[ip]++
	c.open++

	var once sync.Once
	return func() { once.Do(func() { c.release(ip) }) }, true
}

func (c *ConnLimiter) release(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.perIP[ip] > 0 {
		c.perIP[ip]--
		if c.perIP[ip] == 0 {
			delete(c.perIP, ip)
		}
	}
	if c.open > 0 {
		c.open--
	}
}

// Stats returns the current connection counts.
func (c *ConnLimiter) Stats() ConnStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConnStats{Open: c.open, IPs: len(c.perIP)}
}

// OpenFrom returns the number of open connections from ip.
func (c *ConnLimiter) OpenFrom(ip string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perIP[ip]
}

// clientIP extracts the client address of a request, preferring the
// proxy headers X-Forwarded-For and X-Real-IP.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// "client, proxy1, proxy2"
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return hostOnly(r.RemoteAddr)
}

// hostOnly strips the port from an ip:port address.
func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
