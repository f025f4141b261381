package neighbor

import (
	"bytes"
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/zpnet/internal/logging"
	"github.com/muurk/zpnet/internal/mac"
)

// maxConcurrentLookups caps parallel reverse DNS lookups while building.
const maxConcurrentLookups = 10

// Pair is one MAC to host name mapping.
type Pair struct {
	MAC  mac.Addr
	Host string

	// Exact is false when MAC is only a fuzzed variant of a neighbour
	Exact bool
}

// Table maps (fuzzed) MAC addresses to host names. It is immutable once
// built and safe for concurrent readers. The zero value is an empty table.
type Table struct {
	hosts map[mac.Addr]string
	pairs []Pair
}

// NewTable creates a table from a plain map.
func NewTable(hosts map[mac.Addr]string) Table {
	t := Table{hosts: make(map[mac.Addr]string, len(hosts))}
	for k, v := range hosts {
		t.hosts[k] = v
	}
	t.pairs = sortedPairs(t.hosts, nil)
	return t
}

// Lookup returns the host name for a MAC address.
func (t Table) Lookup(a mac.Addr) (string, bool) {
	host, ok := t.hosts[a]
	return host, ok
}

// LookupString parses s and looks it up. Malformed input is a miss.
func (t Table) LookupString(s string) (string, bool) {
	a, err := mac.Parse(s)
	if err != nil {
		return "", false
	}
	return t.Lookup(a)
}

// Len returns the number of keys, fuzzed variants included.
func (t Table) Len() int {
	return len(t.hosts)
}

// Pairs returns every mapping ordered by MAC address.
func (t Table) Pairs() []Pair {
	return t.pairs
}

// sortedPairs orders the mappings by MAC. A nil exact set marks every
// pair exact.
func sortedPairs(hosts map[mac.Addr]string, exact map[mac.Addr]bool) []Pair {
	pairs := make([]Pair, 0, len(hosts))
	for k, v := range hosts {
		pairs = append(pairs, Pair{MAC: k, Host: v, Exact: exact == nil || exact[k]})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i].MAC[:], pairs[j].MAC[:]) < 0
	})
	return pairs
}

// Option is a function that configures BuildTable.
type Option func(*options)

type options struct {
	Static map[mac.Addr]string
}

// WithStatic adds operator-supplied host names. They are applied after the
// neighbor cache and always win.
func WithStatic(hosts map[mac.Addr]string) Option {
	return func(o *options) {
		o.Static = hosts
	}
}

// BuildTable reads the neighbor cache and maps every fuzzed variant of each
// resolved entry's MAC to the entry's host name.
//
// An entry's own address is never overwritten by another entry's fuzzed
// variant; other collisions are resolved last-write-wins in cache order.
// An unavailable source yields an empty table.
func BuildTable(ctx context.Context, src Source, namer *Namer, opts ...Option) Table {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var entries []Entry
	if src != nil {
		var err error
		entries, err = src.Entries(ctx)
		if err != nil {
			logging.Debug("Neighbor cache unavailable, no host names known",
				zap.Stringer("source", src),
				zap.Error(err),
			)
			entries = nil
		}
	}

	resolved := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Resolved {
			resolved = append(resolved, e)
		}
	}

	names := resolveNames(ctx, resolved, namer)

	hosts := make(map[mac.Addr]string)
	exact := make(map[mac.Addr]bool)
	for i, e := range resolved {
		for _, variant := range mac.Fuzz(e.MAC) {
			if variant == e.MAC {
				hosts[variant] = names[i]
				exact[variant] = true
				continue
			}
			if exact[variant] {
				continue
			}
			hosts[variant] = names[i]
		}
	}

	for a, host := range o.Static {
		hosts[a] = host
		exact[a] = true
	}

	logging.Debug("Built reverse neighbor table",
		zap.Int("entries", len(entries)),
		zap.Int("resolved", len(resolved)),
		zap.Int("keys", len(hosts)),
	)

	return Table{hosts: hosts, pairs: sortedPairs(hosts, exact)}
}

// resolveNames looks up every entry's host name; names[i] belongs to entries[i].
func resolveNames(ctx context.Context, entries []Entry, namer *Namer) []string {
	names := make([]string, len(entries))
	if namer == nil {
		for i, e := range entries {
			names[i] = e.IP.String()
		}
		return names
	}

	var wg errgroup.Group
	wg.SetLimit(maxConcurrentLookups)
	for i, e := range entries {
		wg.Go(func() error {
			names[i] = namer.Name(ctx, e.IP.String())
			return nil
		})
	}
	_ = wg.Wait()

	return names
}
