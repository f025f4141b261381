package diagnostics

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Markers and patterns of the zone player debug payloads.
var (
	ssidPattern    = regexp.MustCompile(`SSID: \[(.*)\] \((\d+)\) ([0-9A-F:]{17})`)
	channelPattern = regexp.MustCompile(`Channel: current: (\d+) ap: (\d+)`)
	dmesgPattern   = regexp.MustCompile(`^.* sta RSSI avg=(\d+), TX rate now (\w+)`)
	columnSplit    = regexp.MustCompile(`\s+`)
)

const (
	ssidMarker      = "SSID"
	scanMarker      = ": chan:"
	blacklistMarker = "blacklisted"

	// CHSNKCounter is the performance counter holding the channel-sink
	// fill-level histogram.
	CHSNKCounter = "CHSNK Fill Level"

	chsnkRow     = 2
	chsnkBuckets = 11
)

// Station is what the association status endpoint reveals.
type Station struct {
	Wired   bool
	SSID    string
	Clients string
	APMAC   string
	Channel string
	Beacons string
	Drops   string
	PRR     string
}

// ParseStation interprets status/proc/ath_rincon/station. Each field is
// extracted independently; the boolean is false only when nothing at all
// could be read from a wireless payload.
func ParseStation(body []byte) (Station, bool) {
	text := string(body)
	if !strings.Contains(text, ssidMarker) {
		return Station{Wired: true}, true
	}

	var st Station
	found := false

	if ssid, clients, apMAC, ok := parseAssociation(text); ok {
		st.SSID, st.Clients, st.APMAC = ssid, clients, apMAC
		found = true
	}
	if channel, ok := parseChannel(text); ok {
		st.Channel = channel
		found = true
	}
	if beacons, drops, prr, ok := parseReceiveStats(body); ok {
		st.Beacons, st.Drops, st.PRR = beacons, drops, prr
		found = true
	}

	return st, found
}

func parseAssociation(text string) (ssid, clients, apMAC string, ok bool) {
	m := ssidPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

// parseChannel returns the channel the access point reports.
func parseChannel(text string) (string, bool) {
	m := channelPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[2], true
}

// parseReceiveStats reads the last data row of the receive statistics
// table, which is the third line from the end of the first element's text.
func parseReceiveStats(body []byte) (beacons, drops, prr string, ok bool) {
	var doc struct {
		Children []struct {
			Text string `xml:",chardata"`
		} `xml:",any"`
	}
	if err := decodeXML(body, &doc); err != nil || len(doc.Children) == 0 {
		return "", "", "", false
	}

	lines := strings.Split(doc.Children[0].Text, "\n")
	if len(lines) < 3 {
		return "", "", "", false
	}

	// A leading empty column is kept so that indexes match the table
	// layout when the row is indented.
	cols := columnSplit.Split(lines[len(lines)-3], -1)
	if len(cols) < 6 {
		return "", "", "", false
	}

	return cols[5], cols[len(cols)-3], cols[len(cols)-4], true
}

// ParseDmesg returns the RSSI and TX rate of the first matching kernel log
// line.
func ParseDmesg(body []byte) (rssi, txRate string, ok bool) {
	for _, line := range strings.Split(string(body), "\n") {
		if m := dmesgPattern.FindStringSubmatch(line); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}

// ParseCHSNK computes the channel-sink fill score from status/perf. It
// returns false when the counter is missing, malformed or all zero.
func ParseCHSNK(body []byte) (string, bool) {
	counts, ok := parseCHSNKHistogram(body)
	if !ok {
		return "", false
	}
	return FillScore(counts)
}

func parseCHSNKHistogram(body []byte) ([]int64, bool) {
	var doc struct {
		Counters []struct {
			Name string `xml:"name,attr"`
			Text string `xml:",chardata"`
		} `xml:"PerformanceCounters>Counter"`
	}
	if err := decodeXML(body, &doc); err != nil {
		return nil, false
	}

	for _, counter := range doc.Counters {
		if counter.Name != CHSNKCounter {
			continue
		}

		rows := strings.Split(counter.Text, "\n")
		if len(rows) <= chsnkRow {
			return nil, false
		}

		fields := strings.Fields(rows[chsnkRow])
		if len(fields) < chsnkBuckets+1 {
			return nil, false
		}

		counts := make([]int64, chsnkBuckets)
		for i, f := range fields[1 : chsnkBuckets+1] {
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return nil, false
			}
			counts[i] = v
		}
		return counts, true
	}

	return nil, false
}

// FillScore returns sum(i*count[i]) / (n*sum(count)) for buckets i = 1..n,
// formatted to three decimals. An empty histogram has no score.
func FillScore(counts []int64) (string, bool) {
	var sum, weighted int64
	for i, c := range counts {
		sum += c
		weighted += int64(i+1) * c
	}
	if sum == 0 {
		return "", false
	}

	score := float64(weighted) / float64(sum*int64(len(counts)))
	return fmt.Sprintf("%.3f", score), true
}

// ParseScanResults returns the access point lines of status/scanresults.
func ParseScanResults(body []byte) ([]string, bool) {
	return commandLines(body, scanMarker)
}

// ParseBlacklist returns the blacklisting lines of status/dmesg.
func ParseBlacklist(body []byte) ([]string, bool) {
	return commandLines(body, blacklistMarker)
}

func commandLines(body []byte, marker string) ([]string, bool) {
	var doc struct {
		Commands []struct {
			Text string `xml:",chardata"`
		} `xml:"Command"`
	}
	if err := decodeXML(body, &doc); err != nil || len(doc.Commands) == 0 {
		return nil, false
	}

	var lines []string
	for _, line := range strings.Split(doc.Commands[0].Text, "\n") {
		if strings.Contains(line, marker) {
			lines = append(lines, line)
		}
	}
	return lines, true
}

// decodeXML is lenient about the charset and entity declarations found in
// zone player payloads.
func decodeXML(body []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return dec.Decode(v)
}
