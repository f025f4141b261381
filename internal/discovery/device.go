package discovery

import (
	"fmt"
	"sort"
	"time"
)

// Device is a zone player as seen through discovery. It is a plain value:
// concurrent workers receive only its IP.
type Device struct {
	// IP is the player's address (e.g., "192.168.1.20")
	IP string

	// Name is the zone (room) name (e.g., "Living Room")
	Name string

	// UUID is the player identifier (e.g., "RINCON_000E58A0123401400")
	UUID string

	// GroupID identifies the playback group the player belongs to
	GroupID string

	// Coordinator is true for the player controlling its group
	Coordinator bool

	// Invisible is true for bonded satellites, subs and bridges
	Invisible bool

	// Group lists every member of the player's group, itself included
	Group []*Device

	// Hostname is the mDNS hostname, when the player was found over mDNS
	Hostname string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("Sonos %s (%s) at %s", d.Name, d.UUID, d.IP)
}

// Visible reports whether the player shows up as a zone in controllers.
func (d *Device) Visible() bool {
	return !d.Invisible
}

// Members returns the other members of the device's group sorted by name.
func (d *Device) Members() []*Device {
	var members []*Device
	for _, m := range d.Group {
		if m != d && m.IP != d.IP {
			members = append(members, m)
		}
	}
	SortByName(members)
	return members
}

// SortByName sorts devices by zone name, then IP for equal names.
func SortByName(devices []*Device) {
	sort.SliceStable(devices, func(i, j int) bool {
		if devices[i].Name != devices[j].Name {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].IP < devices[j].IP
	})
}

// IPs returns the devices' addresses in order.
func IPs(devices []*Device) []string {
	ips := make([]string, len(devices))
	for i, d := range devices {
		ips[i] = d.IP
	}
	return ips
}

// Names returns the devices' zone names in order.
func Names(devices []*Device) []string {
	names := make([]string, len(devices))
	for i, d := range devices {
		names[i] = d.Name
	}
	return names
}
