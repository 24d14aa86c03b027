package routes

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
)

// Resolver builds absolute URLs for named routes relative to one request.
type Resolver struct {
	table   *Table
	baseURL string
}

func NewResolver(table *Table, baseURL string) *Resolver {
	return &Resolver{table: table, baseURL: strings.TrimRight(baseURL, "/")}
}

// Resolver derives the base URL (scheme and host) from the incoming request.
func (t *Table) Resolver(c *gin.Context) *Resolver {
	return NewResolver(t, t.BaseURL(c))
}

func (r *Resolver) Link(name string, params ...Param) (string, error) {
	path, err := r.table.Path(name, params...)
	if err != nil {
		return "", err
	}
	return r.baseURL + path, nil
}

// SetTrustedProxies lists the peers, as IPs or CIDRs, whose X-Forwarded-Proto
// and X-Forwarded-Host are believed. Requests from anyone else are linked
// against their own Host.
func (t *Table) SetTrustedProxies(proxies []string) error {
	trusted := make([]netip.Prefix, 0, len(proxies))
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			addr, err := netip.ParseAddr(p)
			if err != nil {
				return fmt.Errorf("trusted proxy %q: %w", p, err)
			}
			trusted = append(trusted, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(p)
		if err != nil {
			return fmt.Errorf("trusted proxy %q: %w", p, err)
		}
		trusted = append(trusted, prefix.Masked())
	}
	t.trusted = trusted
	return nil
}

func (t *Table) fromTrustedProxy(c *gin.Context) bool {
	if len(t.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(c.RemoteIP())
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range t.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func (t *Table) BaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	host := c.Request.Host

	if t.fromTrustedProxy(c) {
		if proto := firstForwarded(c.GetHeader("X-Forwarded-Proto")); proto == "http" || proto == "https" {
			scheme = proto
		}
		if fwd := firstForwarded(c.GetHeader("X-Forwarded-Host")); fwd != "" {
			host = fwd
		}
	}

	return scheme + "://" + host
}

func firstForwarded(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.ToLower(strings.TrimSpace(first))
}
