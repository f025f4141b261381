package diagnostics

import (
	"context"
	"time"

	"github.com/muurk/zpnet/internal/logging"
	"github.com/muurk/zpnet/internal/neighbor"
	"github.com/muurk/zpnet/internal/zpclient"
)

// WiredNetwork is the Network value of a player on ethernet.
const WiredNetwork = "Wired"

// Diagnostics is the network health of one zone player. An empty field
// means the value could not be determined; the zero value is a player
// nothing is known about.
type Diagnostics struct {
	Network    string `json:"network"`
	Channel    string `json:"channel"`
	RSSI       string `json:"rssi"`
	TxRate     string `json:"tx_rate"`
	Beacons    string `json:"beacons"`
	Drops      string `json:"drops"`
	PRR        string `json:"prr"`
	CHSNKScore string `json:"chsnk_score"`
	SSID       string `json:"ssid,omitempty"`
	Clients    string `json:"clients,omitempty"`
	APMAC      string `json:"ap_mac,omitempty"`
}

// Fetcher queries zone players' debug endpoints. It holds no mutable state
// and may be shared by concurrent workers.
type Fetcher struct {
	// Table names access points by MAC. The zero table names nothing.
	Table neighbor.Table

	// Timeout bounds each request (default zpclient.DefaultTimeout)
	Timeout time.Duration
}

// NewFetcher creates a fetcher that names access points from table.
func NewFetcher(table neighbor.Table) *Fetcher {
	return &Fetcher{
		Table:   table,
		Timeout: zpclient.DefaultTimeout,
	}
}

func (f *Fetcher) client(addr string) *zpclient.Client {
	c := zpclient.NewClient(addr)
	if f.Timeout > 0 {
		c.SetTimeout(f.Timeout)
	}
	return c
}

// Fetch queries association status, kernel log and performance counters.
// A failure in one query leaves only that query's fields empty.
func (f *Fetcher) Fetch(ctx context.Context, addr string) Diagnostics {
	c := f.client(addr)

	var d Diagnostics
	f.fetchStation(ctx, c, &d)
	f.fetchDmesg(ctx, c, &d)
	f.fetchPerf(ctx, c, &d)
	return d
}

func (f *Fetcher) fetchStation(ctx context.Context, c *zpclient.Client, d *Diagnostics) {
	body, err := c.Get(ctx, zpclient.PathStation)
	if err != nil {
		return
	}

	st, ok := ParseStation(body)
	if !ok {
		logging.LogFieldUnavailable(c.Addr, "network", "unrecognised station payload")
		return
	}

	if st.Wired {
		d.Network = WiredNetwork
		d.Channel = ""
		return
	}

	d.SSID, d.Clients, d.APMAC = st.SSID, st.Clients, st.APMAC
	d.Channel = st.Channel
	d.Beacons, d.Drops, d.PRR = st.Beacons, st.Drops, st.PRR

	if st.APMAC != "" {
		d.Network = st.APMAC
		if host, ok := f.Table.LookupString(st.APMAC); ok {
			d.Network = host
		}
	}
}

func (f *Fetcher) fetchDmesg(ctx context.Context, c *zpclient.Client, d *Diagnostics) {
	body, err := c.Get(ctx, zpclient.PathDmesg)
	if err != nil {
		return
	}

	rssi, tx, ok := ParseDmesg(body)
	if !ok {
		logging.LogFieldUnavailable(c.Addr, "rssi", "no RSSI line in kernel log")
		return
	}
	d.RSSI, d.TxRate = rssi, tx
}

func (f *Fetcher) fetchPerf(ctx context.Context, c *zpclient.Client, d *Diagnostics) {
	body, err := c.Get(ctx, zpclient.PathPerf)
	if err != nil {
		return
	}

	score, ok := ParseCHSNK(body)
	if !ok {
		logging.LogFieldUnavailable(c.Addr, "chsnk_score", "counter missing or histogram empty")
		return
	}
	d.CHSNKScore = score
}

// FetchScan returns the player's wireless scan lines; empty on failure.
func (f *Fetcher) FetchScan(ctx context.Context, addr string) []string {
	c := f.client(addr)

	body, err := c.Get(ctx, zpclient.PathScanResults)
	if err != nil {
		return nil
	}

	lines, ok := ParseScanResults(body)
	if !ok {
		logging.LogFieldUnavailable(c.Addr, "scan", "no Command element")
	}
	return lines
}

// FetchBlacklist returns the player's access point blacklisting lines;
// empty on failure.
func (f *Fetcher) FetchBlacklist(ctx context.Context, addr string) []string {
	c := f.client(addr)

	body, err := c.Get(ctx, zpclient.PathDmesg)
	if err != nil {
		return nil
	}

	lines, ok := ParseBlacklist(body)
	if !ok {
		logging.LogFieldUnavailable(c.Addr, "blacklist", "no Command element")
	}
	return lines
}
