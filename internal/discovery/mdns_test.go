package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestEntryIP(t *testing.T) {
	tests := []struct {
		name   string
		entry  *zeroconf.ServiceEntry
		wantIP string
	}{
		{
			name: "IPv4 preferred",
			entry: &zeroconf.ServiceEntry{
				HostName: "Sonos-000E58A00001.local.",
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.20")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantIP: "192.168.1.20",
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				HostName: "Sonos-000E58A00002.local.",
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantIP: "fe80::2",
		},
		{
			name:   "no address",
			entry:  &zeroconf.ServiceEntry{HostName: "Sonos-000E58A00003.local."},
			wantIP: "",
		},
		{
			name:   "nil entry",
			entry:  nil,
			wantIP: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entryIP(tt.entry); got != tt.wantIP {
				t.Errorf("entryIP() = %q, want %q", got, tt.wantIP)
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"10.0.0.2", "", "10.0.0.1", "10.0.0.2"})
	want := []string{"10.0.0.2", "10.0.0.1"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("dedupe() = %v, want %v", got, want)
	}
}

// newZonePlayer serves a topology naming itself plus one invisible
// satellite bonded to it.
func newZonePlayer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status/topology" {
			http.NotFound(w, r)
			return
		}
		host := r.Host
		fmt.Fprintf(w, `<ZPSupportInfo><ZonePlayers>
<ZonePlayer group='RINCON_A:1' coordinator='true' uuid='RINCON_A' location='http://%s/xml/device_description.xml'>Study</ZonePlayer>
<ZonePlayer group='RINCON_A:1' coordinator='false' uuid='RINCON_B' location='http://192.0.2.10:1400/xml/device_description.xml' invisible='1'>Study</ZonePlayer>
</ZonePlayers></ZPSupportInfo>`, host)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newLegacyPlayer only serves its device description.
func newLegacyPlayer(t *testing.T, room string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/xml/device_description.xml" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<?xml version="1.0" encoding="utf-8" ?>
<root xmlns="urn:schemas-upnp-org:device-1-0"><device>
<deviceType>urn:schemas-upnp-org:device:ZonePlayer:1</deviceType>
<roomName>%s</roomName><UDN>uuid:RINCON_LEGACY</UDN>
</device></root>`, room)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func serverAddr(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestScanner_DiscoverFromSeeds(t *testing.T) {
	player := newZonePlayer(t)
	legacy := newLegacyPlayer(t, "Attic")

	scanner := NewScanner()
	scanner.RequestTimeout = 2 * time.Second
	scanner.Seeds = []string{serverAddr(player), serverAddr(legacy), serverAddr(player)}

	devices, err := scanner.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(devices) != 3 {
		t.Fatalf("Discover() found %d devices, want 3: %v", len(devices), Names(devices))
	}

	if devices[0].Name != "Attic" || devices[0].UUID != "RINCON_LEGACY" {
		t.Errorf("devices[0] = %v, want Attic described standalone", devices[0])
	}
	if !devices[0].Coordinator || len(devices[0].Group) != 1 {
		t.Errorf("standalone device should coordinate a group of one")
	}
	if devices[1].Name != "Study" || devices[2].Name != "Study" {
		t.Errorf("names = %v, want Study twice after Attic", Names(devices))
	}

	var visible int
	for _, d := range devices {
		if d.Visible() {
			visible++
		}
	}
	if visible != 2 {
		t.Errorf("visible devices = %d, want 2", visible)
	}
}

func TestScanner_DescriptionUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	scanner := NewScanner()
	scanner.Seeds = []string{serverAddr(srv)}

	devices, err := scanner.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(devices) != 1 || devices[0].Name != serverAddr(srv) {
		t.Errorf("Discover() = %v, want one device named by its address", Names(devices))
	}
}

func TestScanner_BrowsedHostnames(t *testing.T) {
	player := newZonePlayer(t)
	silent := httptest.NewServer(http.NotFoundHandler())
	defer silent.Close()

	scanner := NewScanner()
	scanner.browse = func(ctx context.Context) ([]answer, error) {
		return []answer{
			{IP: serverAddr(player), Hostname: "Sonos-000E58A00001.local."},
			{IP: serverAddr(silent), Hostname: "Sonos-000E58A00009.local."},
		}, nil
	}

	devices, err := scanner.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	byIP := make(map[string]*Device)
	for _, d := range devices {
		byIP[d.IP] = d
	}

	study := byIP[serverAddr(player)]
	if study == nil || study.Name != "Study" || study.Hostname != "Sonos-000E58A00001.local." {
		t.Errorf("topology player = %+v, want Study with its mDNS hostname", study)
	}
	fallback := byIP[serverAddr(silent)]
	if fallback == nil || fallback.Name != "Sonos-000E58A00009" {
		t.Errorf("undescribed player = %+v, want it named by its mDNS hostname", fallback)
	}
}

func TestShortHostname(t *testing.T) {
	tests := map[string]string{
		"Sonos-000E58A00001.local.": "Sonos-000E58A00001",
		"Sonos-000E58A00001":        "Sonos-000E58A00001",
		"":                          "",
	}
	for in, want := range tests {
		if got := shortHostname(in); got != want {
			t.Errorf("shortHostname(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScanner_NoDevices(t *testing.T) {
	scanner := NewScanner()
	scanner.browse = func(ctx context.Context) ([]answer, error) {
		return nil, nil
	}

	_, err := scanner.Discover(context.Background())
	if !errors.Is(err, ErrNoDevices) {
		t.Errorf("Discover() error = %v, want ErrNoDevices", err)
	}
}

func TestScanner_BrowseError(t *testing.T) {
	scanner := NewScanner()
	browseErr := errors.New("multicast unavailable")
	scanner.browse = func(ctx context.Context) ([]answer, error) {
		return nil, browseErr
	}

	_, err := scanner.Discover(context.Background())
	if !errors.Is(err, browseErr) {
		t.Errorf("Discover() error = %v, want %v", err, browseErr)
	}
}

func TestScanner_UnknownInterface(t *testing.T) {
	scanner := NewScanner()
	scanner.Interface = "does-not-exist0"

	_, err := scanner.Discover(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unknown interface") {
		t.Errorf("Discover() error = %v, want unknown interface", err)
	}
}
