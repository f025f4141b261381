//go:build linux

package neighbor

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/vishvananda/netlink"

	"github.com/muurk/zpnet/internal/mac"
)

// NetlinkSource lists IPv4 neighbours through rtnetlink.
type NetlinkSource struct{}

// Entries implements Source.
func (NetlinkSource) Entries(ctx context.Context) ([]Entry, error) {
	neighs, err := netlink.NeighList(0, netlink.FAMILY_V4)
	if err != nil {
		return nil, fmt.Errorf("failed to list neighbours: %w", err)
	}

	entries := make([]Entry, 0, len(neighs))
	for _, neigh := range neighs {
		ip, ok := netip.AddrFromSlice(neigh.IP)
		if !ok {
			continue
		}

		// Skip entries with invalid MAC.
		hw, ok := mac.FromBytes(neigh.HardwareAddr)
		if !ok {
			continue
		}

		entries = append(entries, Entry{
			IP:       ip.Unmap(),
			MAC:      hw,
			Resolved: resolvedState(neigh.State) && !hw.IsZero(),
		})
	}

	return entries, nil
}

func (NetlinkSource) String() string {
	return "netlink"
}

func resolvedState(state int) bool {
	switch {
	case state&netlink.NUD_PERMANENT != 0:
		return true
	case state == netlink.NUD_NONE, state&(netlink.NUD_INCOMPLETE|netlink.NUD_FAILED) != 0:
		return false
	}
	return true
}
