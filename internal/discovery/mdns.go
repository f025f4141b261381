package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/muurk/zpnet/internal/logging"
	"github.com/muurk/zpnet/internal/zpclient"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service type zone players advertise
	ServiceType = "_sonos._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default time spent listening for players
	DefaultScanTimeout = 5 * time.Second
)

// ErrNoDevices is returned when neither mDNS nor the seed addresses
// produce a reachable zone player.
var ErrNoDevices = errors.New("no Sonos devices detected")

// Scanner handles zone player discovery
type Scanner struct {
	// Timeout is the maximum time to wait for mDNS answers
	Timeout time.Duration

	// RequestTimeout bounds each topology or description request
	RequestTimeout time.Duration

	// Interface restricts mDNS to one network interface when set
	Interface string

	// Seeds are known player addresses. When present mDNS is skipped.
	Seeds []string

	// browse is swapped out in tests
	browse func(ctx context.Context) ([]answer, error)
}

// answer is one player heard over mDNS.
type answer struct {
	IP       string
	Hostname string
}

// NewScanner creates a new scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:        DefaultScanTimeout,
		RequestTimeout: zpclient.DefaultTimeout,
	}
}

// Discover finds every zone player in the household, invisible ones
// included, sorted by name. Players are located through the seeds or over
// mDNS, then the household topology is read from the first player that
// answers. Players that cannot provide topology are described standalone.
func (s *Scanner) Discover(ctx context.Context) ([]*Device, error) {
	seeds := dedupe(s.Seeds)
	hostnames := make(map[string]string)
	if len(seeds) == 0 {
		browse := s.browse
		if browse == nil {
			browse = s.browseMDNS
		}
		found, err := browse(ctx)
		if err != nil {
			return nil, err
		}
		ips := make([]string, 0, len(found))
		for _, a := range found {
			ips = append(ips, a.IP)
			if a.Hostname != "" {
				hostnames[a.IP] = a.Hostname
			}
		}
		seeds = dedupe(ips)
	}
	if len(seeds) == 0 {
		return nil, ErrNoDevices
	}

	var devices []*Device
	for _, ip := range seeds {
		topo, err := fetchTopology(ctx, ip, s.RequestTimeout)
		if err != nil {
			logging.Debug("Topology unavailable",
				zap.String("device_ip", ip),
				zap.Error(err))
			continue
		}
		devices = topo
		break
	}

	known := make(map[string]bool, len(devices))
	for _, d := range devices {
		known[d.IP] = true
	}
	for _, ip := range seeds {
		if known[ip] {
			continue
		}
		if len(devices) > 0 {
			logging.Debug("Seed not in topology", zap.String("device_ip", ip))
		}
		devices = append(devices, describeDevice(ctx, ip, hostnames[ip], s.RequestTimeout))
		known[ip] = true
	}
	for _, d := range devices {
		if d.Hostname == "" {
			d.Hostname = hostnames[d.IP]
		}
	}

	SortByName(devices)
	logging.Info("Discovery complete", zap.Int("devices", len(devices)))
	return devices, nil
}

// browseMDNS listens for _sonos._tcp advertisements until the scan
// timeout and returns the players heard.
func (s *Scanner) browseMDNS(ctx context.Context) ([]answer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var opts []zeroconf.ClientOption
	if s.Interface != "" {
		iface, err := net.InterfaceByName(s.Interface)
		if err != nil {
			return nil, fmt.Errorf("unknown interface %q: %w", s.Interface, err)
		}
		opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
	}

	resolver, err := zeroconf.NewResolver(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu    sync.Mutex
		found []answer
	)
	go func() {
		for entry := range entries {
			if ip := entryIP(entry); ip != "" {
				mu.Lock()
				found = append(found, answer{IP: ip, Hostname: entry.HostName})
				mu.Unlock()
				logging.Debug("mDNS answer",
					zap.String("hostname", entry.HostName),
					zap.String("device_ip", ip))
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]answer(nil), found...), nil
}

// entryIP picks the address of a service entry, preferring IPv4.
func entryIP(entry *zeroconf.ServiceEntry) string {
	if entry == nil {
		return ""
	}
	for _, addr := range entry.AddrIPv4 {
		return addr.String()
	}
	if len(entry.AddrIPv6) > 0 {
		return entry.AddrIPv6[0].String()
	}
	return ""
}

func dedupe(ips []string) []string {
	seen := make(map[string]bool, len(ips))
	var out []string
	for _, ip := range ips {
		if ip == "" || seen[ip] {
			continue
		}
		seen[ip] = true
		out = append(out, ip)
	}
	return out
}
