// Package report correlates per-device diagnostics into the reports the
// CLI prints: the topology map, the access point evaluation and the
// blacklist listing. MAC addresses in device output are replaced with host
// names from the reverse neighbor table.
package report
