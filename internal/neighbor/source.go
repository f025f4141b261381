package neighbor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/zpnet/internal/logging"
	"github.com/muurk/zpnet/internal/mac"
)

// DefaultProcPath is the kernel's textual ARP cache.
const DefaultProcPath = "/proc/net/arp"

// atfComplete is the ATF_COM flag: the hardware address is resolved.
const atfComplete = 0x2

// Entry is one record of the host's neighbor cache.
type Entry struct {
	IP       netip.Addr
	MAC      mac.Addr
	Resolved bool
}

// Source yields the host's neighbor cache.
type Source interface {
	Entries(ctx context.Context) ([]Entry, error)
	String() string
}

// ProcSource reads a file in /proc/net/arp format.
type ProcSource struct {
	Path string
}

// Entries implements Source.
func (s ProcSource) Entries(ctx context.Context) ([]Entry, error) {
	f, err := os.Open(s.path())
	if err != nil {
		return nil, fmt.Errorf("failed to open neighbor cache: %w", err)
	}
	defer f.Close()

	return parseProcARP(f)
}

func (s ProcSource) String() string {
	return s.path()
}

func (s ProcSource) path() string {
	if s.Path == "" {
		return DefaultProcPath
	}
	return s.Path
}

// parseProcARP parses lines of the form
//
//	IP address       HW type     Flags       HW address            Mask     Device
//	192.168.1.1      0x1         0x2         80:2a:a8:d1:07:95     *        eth0
func parseProcARP(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}

		ip, err := netip.ParseAddr(fields[0])
		if err != nil {
			// Header line.
			continue
		}

		hw, err := mac.Parse(fields[3])
		if err != nil {
			logging.Debug("Skipping neighbor with unsupported hardware address",
				zap.String("ip", fields[0]),
				zap.String("hw_address", fields[3]),
			)
			continue
		}

		flags, err := strconv.ParseUint(strings.TrimPrefix(fields[2], "0x"), 16, 32)
		if err != nil {
			flags = 0
		}

		entries = append(entries, Entry{
			IP:       ip,
			MAC:      hw,
			Resolved: flags&atfComplete != 0 && !hw.IsZero(),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read neighbor cache: %w", err)
	}

	return entries, nil
}

// fallbackSource tries each source in order until one succeeds.
type fallbackSource []Source

func (s fallbackSource) Entries(ctx context.Context) ([]Entry, error) {
	var errs []error
	for _, src := range s {
		entries, err := src.Entries(ctx)
		if err == nil {
			return entries, nil
		}
		logging.Debug("Neighbor source unavailable",
			zap.Stringer("source", src),
			zap.Error(err),
		)
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

func (s fallbackSource) String() string {
	names := make([]string, len(s))
	for i, src := range s {
		names[i] = src.String()
	}
	return strings.Join(names, ",")
}

// DefaultSource returns the platform's preferred neighbor source. When
// procPath is not empty the file is read directly and netlink is skipped.
func DefaultSource(procPath string) Source {
	if procPath != "" {
		return ProcSource{Path: procPath}
	}
	return fallbackSource{NetlinkSource{}, ProcSource{}}
}
