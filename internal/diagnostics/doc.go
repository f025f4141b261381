// Package diagnostics reads the network health of a zone player from its
// debug endpoint.
//
// Three payloads are queried per player: association status
// (status/proc/ath_rincon/station), the kernel log (status/dmesg) and the
// performance counters (status/perf). None of them is a documented format,
// so each value is scraped by a narrow parser that reports whether it found
// anything. A timeout, an HTTP error or a payload of unexpected shape leaves
// the affected fields empty and never prevents the other fields from being
// filled.
//
// # CHSNK fill score
//
// The "CHSNK Fill Level" counter is an 11-bucket histogram of channel-sink
// buffer occupancy. Its weighted mean, normalised to (0, 1], is used as a
// congestion proxy:
//
//	score = sum(i * count[i]) / (11 * sum(count[i]))   for i = 1..11
//
// An all-zero histogram has no score.
package diagnostics
