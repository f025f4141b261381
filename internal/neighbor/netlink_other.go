//go:build !linux

package neighbor

import (
	"context"
	"errors"
)

// NetlinkSource is only available on Linux.
type NetlinkSource struct{}

// Entries implements Source.
func (NetlinkSource) Entries(ctx context.Context) ([]Entry, error) {
	return nil, errors.New("netlink neighbour listing is not supported on this platform")
}

func (NetlinkSource) String() string {
	return "netlink"
}
