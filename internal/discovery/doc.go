// Package discovery locates the zone players of a household.
//
// Players advertise themselves over multicast DNS as "_sonos._tcp". The
// scanner listens for those advertisements (or starts from addresses given
// on the command line), then asks the first player that answers for the
// household topology at /status/topology. The topology names every player,
// the group it belongs to, whether it coordinates that group and whether it
// is invisible (bonded surrounds, subs, bridges).
//
// Players that do not serve a topology are described standalone from their
// UPnP device description, each forming a group of one.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Interface = "eth0"
//	devices, err := scanner.Discover(ctx)
//	if errors.Is(err, discovery.ErrNoDevices) {
//	    // nothing answered
//	}
//
// # Network Requirements
//
//   - Requires multicast support on the network interface
//   - Firewall must allow mDNS (UDP port 5353)
//   - Players answer HTTP on port 1400
package discovery
