package middleware

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
)

// IPAllowList matches client addresses against single IPs and CIDR ranges.
// An empty list allows everyone.
type IPAllowList struct {
	prefixes []netip.Prefix
}

// ParseIPAllowList accepts entries like "10.0.0.7", "192.168.1.0/24" or
// "::1". An unparsable entry is an error so a typo never opens the list.
func ParseIPAllowList(entries []string) (*IPAllowList, error) {
	l := &IPAllowList{}
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid CIDR %q: %w", entry, err)
			}
			l.prefixes = append(l.prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid IP %q: %w", entry, err)
		}
		addr = addr.Unmap()
		l.prefixes = append(l.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return l, nil
}

// Empty reports whether the list has no entries
func (l *IPAllowList) Empty() bool {
	return l == nil || len(l.prefixes) == 0
}

// Allows reports whether ip is covered. An empty list allows any address.
func (l *IPAllowList) Allows(ip string) bool {
	if l.Empty() {
		return true
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range l.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// RestrictIPs answers 403 to clients outside list, as resolved by gin's
// ClientIP and its trusted proxy settings.
func RestrictIPs(list *IPAllowList, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !list.Allows(c.ClientIP()) {
			abort(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
			return
		}
		c.Next()
	}
}

// DocsConfig controls who may read the API documentation
type DocsConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  *IPAllowList
}

// DocsProtection returns the handler chain placed in front of /swagger: 404
// when disabled, then the IP list, then auth (bearer plus admin) when
// RequireAuth is set. Spread it into the route before the docs handler.
func DocsProtection(cfg DocsConfig, auth ...gin.HandlerFunc) []gin.HandlerFunc {
	if !cfg.Enabled {
		return []gin.HandlerFunc{func(c *gin.Context) {
			abort(c, http.StatusNotFound, dto.ErrCodeNotFound, "API documentation is not available")
		}}
	}
	chain := []gin.HandlerFunc{RestrictIPs(cfg.AllowedIPs, "Access to API documentation is restricted")}
	if cfg.RequireAuth {
		chain = append(chain, auth...)
	}
	return chain
}
