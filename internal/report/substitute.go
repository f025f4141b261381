package report

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/muurk/zpnet/internal/neighbor"
)

var (
	rssiPattern = regexp.MustCompile(`rssi:\s*(\d+)`)
	apPattern   = regexp.MustCompile(`(\S+): `)
)

// Substitute replaces every MAC address in line that the table knows with
// the host name, right-aligned to 20 columns. Matching ignores case since
// device logs print MACs in lower case. Pairs are applied in table order.
func Substitute(line string, t neighbor.Table) string {
	for _, p := range t.Pairs() {
		line = replaceFold(line, p.MAC.String(), fmt.Sprintf("%20.20s", p.Host))
	}
	return line
}

// replaceFold replaces non-overlapping occurrences of the ASCII string old,
// compared case-insensitively.
func replaceFold(s, old, repl string) string {
	n := len(old)
	if n == 0 || len(s) < n {
		return s
	}

	var b strings.Builder
	matched := false
	i := 0
	for i+n <= len(s) {
		if strings.EqualFold(s[i:i+n], old) {
			if !matched {
				b.Grow(len(s))
				b.WriteString(s[:i])
				matched = true
			}
			b.WriteString(repl)
			i += n
			continue
		}
		if matched {
			b.WriteByte(s[i])
		}
		i++
	}
	if !matched {
		return s
	}
	b.WriteString(s[i:])
	return b.String()
}

// WiFiStatus is the access point evaluation for one zone player.
type WiFiStatus struct {
	// Current is the network the player is associated with
	Current string

	// Lines are the scan results, strongest first, filtered and renamed
	Lines []string

	// BestAP is the access point named on the strongest line
	BestAP string

	// NotOptimal is true when BestAP differs from Current
	NotOptimal bool
}

// EvaluateWiFi ranks scan result lines by signal strength and compares the
// strongest access point with the current one. Only lines containing
// "rssi: " are considered, and of those only lines containing filter.
func EvaluateWiFi(current string, scan []string, filter string, t neighbor.Table) WiFiStatus {
	status := WiFiStatus{Current: current}

	var ranked []string
	for _, line := range scan {
		if strings.Contains(line, "rssi: ") {
			ranked = append(ranked, line)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return rssiOf(ranked[i]) > rssiOf(ranked[j])
	})

	for _, line := range ranked {
		if strings.Contains(line, filter) {
			status.Lines = append(status.Lines, Substitute(line, t))
		}
	}

	if len(status.Lines) > 0 {
		if m := apPattern.FindStringSubmatch(status.Lines[0]); m != nil {
			status.BestAP = m[1]
			status.NotOptimal = status.BestAP != current
		}
	}
	return status
}

// rssiOf returns the signal strength in a scan line, or -1.
func rssiOf(line string) int {
	m := rssiPattern.FindStringSubmatch(line)
	if m == nil {
		return -1
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return v
}
