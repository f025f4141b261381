package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/zpnet/internal/config"
	"github.com/muurk/zpnet/internal/neighbor"
	"github.com/muurk/zpnet/internal/report"
	"github.com/muurk/zpnet/internal/ui"
	"github.com/muurk/zpnet/internal/zpclient"
)

const (
	stationPage = `<ZPSupportInfo><File name="/proc/ath_rincon/station">
SSID: [HomeNet] (4) 80:2A:A8:D1:07:95
Channel: current: 11 ap: 6
  Node MAC               RSSI Rate Beacons PRR   Drops Retries Age
   0 80:2a:a8:d1:07:95 42 7 1234 0.987 12 3 1
total 1
</File></ZPSupportInfo>`

	dmesgPage = `<ZPSupportInfo><Command cmdline='/bin/dmesg'>
&lt;6&gt;[   13.000000] ath: sta RSSI avg=38, TX rate now 54M, retries 3
&lt;4&gt;[   30.000000] ath: ap 80:2a:a8:d1:07:96 blacklisted for 60s
</Command></ZPSupportInfo>`

	scanPage = `<ZPSupportInfo><Command cmdline='/usr/sbin/wlanscan'>
80:2a:a8:d1:07:96: chan: 6 rssi: 31 ssid: HomeNet
f0:9f:c2:10:20:30: chan: 11 rssi: 45 ssid: HomeNet
0a:0b:0c:0d:0e:0f: chan: 1 rssi: 60 ssid: Neighbours
</Command></ZPSupportInfo>`

	transportPage = `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>
<u:GetTransportInfoResponse xmlns:u="urn:schemas-upnp-org:service:AVTransport:1">
<CurrentTransportState>PLAYING</CurrentTransportState>
<CurrentTransportStatus>OK</CurrentTransportStatus>
<CurrentSpeed>1</CurrentSpeed>
</u:GetTransportInfoResponse></s:Body></s:Envelope>`

	arpFixture = `IP address       HW type     Flags       HW address            Mask     Device
192.168.1.1      0x1         0x2         80:2a:a8:d1:07:95     *        eth0
`
)

// fakePlayer is a single zone player named Study coordinating its own group.
type fakePlayer struct {
	addr    string
	reboots atomic.Int32

	// rebootStatus, when set, is the HTTP status answered to /reboot
	rebootStatus atomic.Int32
}

func newFakePlayer(t *testing.T) *fakePlayer {
	t.Helper()
	p := &fakePlayer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/status/topology":
			fmt.Fprintf(w, `<ZPSupportInfo><ZonePlayers><ZonePlayer group='RINCON_S:1' coordinator='true' uuid='RINCON_S' location='http://%s/xml/device_description.xml'>Study</ZonePlayer></ZonePlayers></ZPSupportInfo>`, r.Host)
		case "/status/proc/ath_rincon/station":
			fmt.Fprint(w, stationPage)
		case "/status/dmesg":
			fmt.Fprint(w, dmesgPage)
		case "/status/scanresults":
			fmt.Fprint(w, scanPage)
		case "/MediaRenderer/AVTransport/Control":
			fmt.Fprint(w, transportPage)
		case "/reboot":
			p.reboots.Add(1)
			if code := p.rebootStatus.Load(); code != 0 {
				w.WriteHeader(int(code))
				return
			}
			fmt.Fprint(w, "OK")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	p.addr = srv.Listener.Addr().String()
	return p
}

type fakeResolver map[string]string

func (r fakeResolver) LookupAddr(ctx context.Context, addr string) ([]string, error) {
	if name, ok := r[addr]; ok {
		return []string{name}, nil
	}
	return nil, errors.New("no PTR record")
}

func newTestApp(t *testing.T, player *fakePlayer) (*app, *bytes.Buffer) {
	t.Helper()

	arp := filepath.Join(t.TempDir(), "arp")
	require.NoError(t, os.WriteFile(arp, []byte(arpFixture), 0o600))

	cfg := config.New()
	cfg.Devices = []string{player.addr}
	cfg.RequestTimeout = 2
	cfg.RebootDelay = 1

	var out bytes.Buffer
	a := newAppWithOutput(cfg, &out, &bytes.Buffer{})
	a.source = neighbor.ProcSource{Path: arp}
	a.namer = neighbor.NewNamer(fakeResolver{"192.168.1.1": "office-ap.home.lan."})
	return a, &out
}

func TestRunMap_JSON(t *testing.T) {
	player := newFakePlayer(t)
	a, out := newTestApp(t, player)

	require.NoError(t, a.runMap(context.Background(), "json"))

	var rows []report.Row
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Study", row.Name)
	assert.Equal(t, "PLAYING", row.State)
	assert.Equal(t, "office-ap", row.Diagnostics.Network)
	assert.Equal(t, "6", row.Diagnostics.Channel)
	assert.Equal(t, "38", row.Diagnostics.RSSI)
	assert.Equal(t, "1234", row.Diagnostics.Beacons)
	assert.Empty(t, row.Diagnostics.CHSNKScore, "perf page is not served")
}

func TestRunMap_Table(t *testing.T) {
	player := newFakePlayer(t)
	a, out := newTestApp(t, player)

	require.NoError(t, a.runMap(context.Background(), "table"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, report.HeaderLine(), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Study "))
	assert.Contains(t, lines[1], "office-ap (6)")
	assert.Contains(t, lines[1], "PLAYING")
}

func TestRunMap_UnknownFormat(t *testing.T) {
	a, _ := newTestApp(t, newFakePlayer(t))
	assert.Error(t, a.runMap(context.Background(), "xml"))
}

func TestRunWiFiStatus(t *testing.T) {
	player := newFakePlayer(t)
	a, out := newTestApp(t, player)

	require.NoError(t, a.runWiFiStatus(context.Background(), "HomeNet"))

	got := out.String()
	assert.Contains(t, got, "Sonos: Study (connected to office-ap)")
	assert.Contains(t, got, "           office-ap: chan: 6 rssi: 31 ssid: HomeNet")
	assert.NotContains(t, got, "Neighbours")
	assert.Contains(t, got, "NOT OPTIMAL: change access point from [office-ap] to [f0:9f:c2:10:20:30]")
}

func TestRunWiFiBlacklist(t *testing.T) {
	player := newFakePlayer(t)
	a, out := newTestApp(t, player)

	require.NoError(t, a.runWiFiBlacklist(context.Background()))

	assert.Contains(t, out.String(), "Sonos: Study\n")
	assert.Contains(t, out.String(), "ath: ap            office-ap blacklisted for 60s")
}

func TestRunReboot(t *testing.T) {
	player := newFakePlayer(t)
	a, out := newTestApp(t, player)

	require.NoError(t, a.runReboot(context.Background()))

	assert.Equal(t, int32(1), player.reboots.Load())
	assert.Contains(t, out.String(), "REBOOTING THESE SONOS IN 1 SECONDS!\n\tStudy\nHit ^C to abort\n")
	assert.True(t, strings.HasSuffix(out.String(), "OK\n"))
}

func TestRunReboot_Aborted(t *testing.T) {
	player := newFakePlayer(t)
	a, out := newTestApp(t, player)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.runReboot(ctx)
	assert.ErrorIs(t, err, ui.ErrInterrupted)
	assert.Equal(t, int32(0), player.reboots.Load())
	assert.Contains(t, out.String(), "Reboot aborted.")
}

func TestRunReboot_PlayerRefuses(t *testing.T) {
	player := newFakePlayer(t)
	player.rebootStatus.Store(http.StatusServiceUnavailable)
	a, out := newTestApp(t, player)

	err := a.runReboot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 players did not accept the reboot")

	var devErr *zpclient.DeviceError
	require.ErrorAs(t, err, &devErr)
	assert.Equal(t, zpclient.ErrTypeHTTP, devErr.Type)
	assert.Equal(t, http.StatusServiceUnavailable, devErr.StatusCode)

	assert.True(t, strings.HasSuffix(out.String(), "Study: Device error (HTTP 503)\n"), out.String())
}

func TestPrintFailure(t *testing.T) {
	t.Run("device error gets tips", func(t *testing.T) {
		var buf bytes.Buffer
		err := fmt.Errorf("reboot: %w", &zpclient.DeviceError{
			Type:     zpclient.ErrTypeConnectionRefused,
			Message:  "Device refused connection",
			DeviceIP: "10.0.0.5",
		})

		printFailure(&buf, err)

		out := buf.String()
		assert.Contains(t, out, "FAILED")
		assert.Contains(t, out, "Troubleshooting:")
		assert.Contains(t, out, "Verify the address belongs to a Sonos player")
	})

	t.Run("other errors have no tips", func(t *testing.T) {
		var buf bytes.Buffer

		printFailure(&buf, errors.New("unknown format"))

		assert.Contains(t, buf.String(), "unknown format")
		assert.NotContains(t, buf.String(), "Troubleshooting:")
	})
}

func TestRunNeighbors(t *testing.T) {
	player := newFakePlayer(t)
	a, out := newTestApp(t, player)
	require.NoError(t, a.cfg.SetHost("11:22:33:44:55:66", "garage-ap"))

	require.NoError(t, a.runNeighbors(context.Background(), false))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"MAC                Host",
		"11:22:33:44:55:66  garage-ap",
		"80:2A:A8:D1:07:95  office-ap",
	}, lines)

	out.Reset()
	require.NoError(t, a.runNeighbors(context.Background(), true))
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 1+1+7)
}

func TestVisibleCoordinators(t *testing.T) {
	a, _ := newTestApp(t, newFakePlayer(t))
	devices, err := a.discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{a.cfg.Devices[0]}, visibleCoordinators(devices))
}

func TestMapRefresher(t *testing.T) {
	player := newFakePlayer(t)
	a, _ := newTestApp(t, player)

	refresh, err := a.mapRefresher(context.Background())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		rows, err := refresh(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "PLAYING", rows[0].State)
		assert.Equal(t, "office-ap", rows[0].Diagnostics.Network)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
