package discovery

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/zpnet/internal/zpclient"
)

type topologyDoc struct {
	Players []struct {
		Name        string `xml:",chardata"`
		Group       string `xml:"group,attr"`
		Coordinator string `xml:"coordinator,attr"`
		UUID        string `xml:"uuid,attr"`
		Location    string `xml:"location,attr"`
		Invisible   string `xml:"invisible,attr"`
	} `xml:"ZonePlayers>ZonePlayer"`
}

type deviceDescription struct {
	Device struct {
		RoomName string `xml:"roomName"`
		UDN      string `xml:"UDN"`
	} `xml:"device"`
}

// parseTopology builds devices from status/topology, invisible players
// included, and links group members together.
func parseTopology(body []byte) ([]*Device, error) {
	var doc topologyDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse topology: %w", err)
	}
	if len(doc.Players) == 0 {
		return nil, fmt.Errorf("topology lists no zone players")
	}

	now := time.Now()
	devices := make([]*Device, 0, len(doc.Players))
	for _, p := range doc.Players {
		ip := addrFromLocation(p.Location)
		if ip == "" {
			continue
		}
		devices = append(devices, &Device{
			IP:           ip,
			Name:         strings.TrimSpace(p.Name),
			UUID:         p.UUID,
			GroupID:      p.Group,
			Coordinator:  p.Coordinator == "true",
			Invisible:    p.Invisible == "1" || p.Invisible == "true",
			DiscoveredAt: now,
		})
	}

	linkGroups(devices)
	return devices, nil
}

// linkGroups fills in Group for every device sharing a GroupID. A device
// without a GroupID forms a group of its own.
func linkGroups(devices []*Device) {
	groups := make(map[string][]*Device)
	for _, d := range devices {
		if d.GroupID == "" {
			d.Group = []*Device{d}
			continue
		}
		groups[d.GroupID] = append(groups[d.GroupID], d)
	}
	for _, members := range groups {
		for _, d := range members {
			d.Group = members
		}
	}
}

// addrFromLocation extracts the player address from its description URL.
// The port is kept only when it is not the standard one.
func addrFromLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	if port := u.Port(); port != "" && port != strconv.Itoa(zpclient.DefaultPort) {
		return u.Host
	}
	return u.Hostname()
}

// fetchTopology asks one player for the household topology.
func fetchTopology(ctx context.Context, ip string, timeout time.Duration) ([]*Device, error) {
	client := zpclient.NewClient(ip)
	client.SetTimeout(timeout)

	body, err := client.Get(ctx, zpclient.PathTopology)
	if err != nil {
		return nil, err
	}
	return parseTopology(body)
}

// describeDevice builds a standalone device from its UPnP description,
// for players whose firmware no longer serves status/topology. Without a
// description the player is named by its mDNS hostname, or its address.
func describeDevice(ctx context.Context, ip, hostname string, timeout time.Duration) *Device {
	name := ip
	if short := shortHostname(hostname); short != "" {
		name = short
	}
	d := &Device{
		IP:           ip,
		Name:         name,
		Hostname:     hostname,
		Coordinator:  true,
		DiscoveredAt: time.Now(),
	}
	d.Group = []*Device{d}

	client := zpclient.NewClient(ip)
	client.SetTimeout(timeout)

	body, err := client.Get(ctx, zpclient.PathDeviceDescription)
	if err != nil {
		return d
	}

	var desc deviceDescription
	if err := xml.Unmarshal(body, &desc); err != nil {
		return d
	}
	if name := strings.TrimSpace(desc.Device.RoomName); name != "" {
		d.Name = name
	}
	d.UUID = strings.TrimPrefix(desc.Device.UDN, "uuid:")
	return d
}

// shortHostname drops the domain from an mDNS hostname.
func shortHostname(hostname string) string {
	host, _, _ := strings.Cut(strings.TrimSuffix(hostname, "."), ".")
	return host
}
