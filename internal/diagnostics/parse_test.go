package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStation_Wireless(t *testing.T) {
	st, ok := ParseStation([]byte(stationWireless))
	require.True(t, ok)

	assert.False(t, st.Wired)
	assert.Equal(t, "HomeNet", st.SSID)
	assert.Equal(t, "4", st.Clients)
	assert.Equal(t, "80:2A:A8:D1:07:95", st.APMAC)
	assert.Equal(t, "6", st.Channel)
	assert.Equal(t, "1234", st.Beacons)
	assert.Equal(t, "0.987", st.PRR)
	assert.Equal(t, "12", st.Drops)
}

func TestParseStation_Wired(t *testing.T) {
	st, ok := ParseStation([]byte(stationWired))
	require.True(t, ok)
	assert.True(t, st.Wired)
	assert.Empty(t, st.Channel)
}

func TestParseStation_MarkerWithoutDetails(t *testing.T) {
	_, ok := ParseStation([]byte(stationMarkerOnly))
	assert.False(t, ok)
}

func TestParseStation_FieldsDegradeIndependently(t *testing.T) {
	// Not XML, so the statistics row is lost but the patterns still match.
	body := "SSID: [HomeNet] (2) 80:2A:A8:D1:07:95\nChannel: current: 1 ap: 1\n"

	st, ok := ParseStation([]byte(body))
	require.True(t, ok)
	assert.Equal(t, "HomeNet", st.SSID)
	assert.Equal(t, "1", st.Channel)
	assert.Empty(t, st.Beacons)
	assert.Empty(t, st.Drops)
	assert.Empty(t, st.PRR)
}

func TestParseDmesg_FirstMatchOnly(t *testing.T) {
	rssi, tx, ok := ParseDmesg([]byte(dmesgFixture))
	require.True(t, ok)
	assert.Equal(t, "38", rssi)
	assert.Equal(t, "54M", tx)
}

func TestParseDmesg_NoMatch(t *testing.T) {
	_, _, ok := ParseDmesg([]byte("nothing to see\nsta RSSI missing prefix"))
	assert.False(t, ok)
}

func TestParseCHSNK(t *testing.T) {
	score, ok := ParseCHSNK([]byte(perfFixture))
	require.True(t, ok)
	// (1*10 + 11*10) / (11 * 20)
	assert.Equal(t, "0.545", score)
}

func TestParseCHSNK_ZeroSum(t *testing.T) {
	score, ok := ParseCHSNK([]byte(perfZeroFixture))
	assert.False(t, ok)
	assert.Empty(t, score)
}

func TestParseCHSNK_Malformed(t *testing.T) {
	tests := map[string]string{
		"not xml":         "garbage <<<",
		"counter missing": `<ZPSupportInfo><PerformanceCounters><Counter name="Other">1</Counter></PerformanceCounters></ZPSupportInfo>`,
		"short row":       "<ZPSupportInfo><PerformanceCounters><Counter name=\"CHSNK Fill Level\">a\nb\ncount: 1 2 3\n</Counter></PerformanceCounters></ZPSupportInfo>",
		"non numeric":     "<ZPSupportInfo><PerformanceCounters><Counter name=\"CHSNK Fill Level\">a\nb\ncount: 1 2 3 x 5 6 7 8 9 10 11\n</Counter></PerformanceCounters></ZPSupportInfo>",
		"too few rows":    "<ZPSupportInfo><PerformanceCounters><Counter name=\"CHSNK Fill Level\">only one row</Counter></PerformanceCounters></ZPSupportInfo>",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			score, ok := ParseCHSNK([]byte(body))
			assert.False(t, ok)
			assert.Empty(t, score)
		})
	}
}

func TestFillScore(t *testing.T) {
	tests := []struct {
		name   string
		counts []int64
		want   string
		ok     bool
	}{
		{name: "all in first bucket", counts: []int64{5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, want: "0.091", ok: true},
		{name: "all in last bucket", counts: []int64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3}, want: "1.000", ok: true},
		{name: "uniform", counts: []int64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, want: "0.545", ok: true},
		{name: "empty", counts: make([]int64, 11), want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FillScore(tt.counts)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScanResults(t *testing.T) {
	lines, ok := ParseScanResults([]byte(scanFixture))
	require.True(t, ok)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "80:2a:a8:d1:07:96")
}

func TestParseBlacklist(t *testing.T) {
	lines, ok := ParseBlacklist([]byte(dmesgFixture))
	require.True(t, ok)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "blacklisted")
	assert.Contains(t, lines[0], "<4>")
}

func TestCommandLines_NoCommand(t *testing.T) {
	lines, ok := ParseScanResults([]byte("<ZPSupportInfo/>"))
	assert.False(t, ok)
	assert.Empty(t, lines)
}
