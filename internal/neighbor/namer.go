package neighbor

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"
)

// DefaultLookupTimeout bounds one reverse DNS lookup.
const DefaultLookupTimeout = 2 * time.Second

// Resolver performs reverse DNS lookups. *net.Resolver satisfies it.
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// Namer maps IP addresses to short host names, remembering every answer for
// its own lifetime. Create one per invocation.
type Namer struct {
	resolver Resolver
	timeout  time.Duration

	mu    sync.Mutex
	cache map[string]string
}

// NewNamer creates a Namer. A nil resolver means net.DefaultResolver.
func NewNamer(resolver Resolver) *Namer {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Namer{
		resolver: resolver,
		timeout:  DefaultLookupTimeout,
		cache:    make(map[string]string),
	}
}

// SetTimeout sets the per-lookup timeout.
func (n *Namer) SetTimeout(timeout time.Duration) {
	n.timeout = timeout
}

// Name returns the first label of the address's PTR name, or the address
// itself when the lookup fails.
func (n *Namer) Name(ctx context.Context, ip string) string {
	n.mu.Lock()
	name, ok := n.cache[ip]
	n.mu.Unlock()
	if ok {
		return name
	}

	name = n.lookup(ctx, ip)

	n.mu.Lock()
	n.cache[ip] = name
	n.mu.Unlock()

	return name
}

func (n *Namer) lookup(ctx context.Context, ip string) string {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	names, err := n.resolver.LookupAddr(ctx, ip)
	if err != nil || len(names) == 0 {
		return ip
	}

	host := strings.TrimSuffix(names[0], ".")
	if i := strings.IndexByte(host, '.'); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		return ip
	}
	return host
}
