package mac

import (
	"fmt"
	"strconv"
	"strings"
)

// Addr is an EUI-48 hardware address.
type Addr [6]byte

// Zero is the all-zero address the kernel reports for unresolved neighbours.
var Zero Addr

// fuzzOffsets are applied component-wise by Fuzz. Only the last three
// components are ever touched.
var fuzzOffsets = [7][6]int{
	{0, 0, 0, 0, 0, -1}, {0, 0, 0, 0, 0, 0}, {0, 0, 0, 0, 0, 1},
	{0, 0, 0, 0, -1, 0}, {0, 0, 0, 0, 1, 0},
	{0, 0, 0, -1, 0, 0}, {0, 0, 0, 1, 0, 0},
}

// FuzzSize is the number of addresses returned by Fuzz.
const FuzzSize = len(fuzzOffsets)

// Parse parses six colon-separated hex components, in either case.
func Parse(s string) (Addr, error) {
	var a Addr

	parts := strings.Split(s, ":")
	if len(parts) != len(a) {
		return Addr{}, fmt.Errorf("invalid MAC address %q: want %d components, got %d", s, len(a), len(parts))
	}

	for i, part := range parts {
		if len(part) == 0 || len(part) > 2 {
			return Addr{}, fmt.Errorf("invalid MAC address %q: bad component %q", s, part)
		}
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return Addr{}, fmt.Errorf("invalid MAC address %q: %w", s, err)
		}
		a[i] = byte(v)
	}

	return a, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Addr {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromBytes converts a 6-byte slice, such as a net.HardwareAddr.
func FromBytes(b []byte) (Addr, bool) {
	var a Addr
	if len(b) != len(a) {
		return Addr{}, false
	}
	copy(a[:], b)
	return a, true
}

// IsZero reports whether the address is 00:00:00:00:00:00.
func (a Addr) IsZero() bool {
	return a == Zero
}

// String returns the canonical uppercase form, e.g. "80:2A:A8:D1:07:95".
func (a Addr) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// Lower returns the lowercase form used in device scan and dmesg output.
func (a Addr) Lower() string {
	return strings.ToLower(a.String())
}

// Fuzz returns the address together with six variants, each differing from
// it by +/-1 in exactly one of the last three components. The order is
// fixed: [c6-1, identity, c6+1, c5-1, c5+1, c4-1, c4+1].
func Fuzz(a Addr) []Addr {
	out := make([]Addr, 0, len(fuzzOffsets))
	for _, offset := range fuzzOffsets {
		var v Addr
		for i := range a {
			v[i] = byte((int(a[i]) + offset[i] + 256) % 256)
		}
		out = append(out, v)
	}
	return out
}

// FuzzString parses s and returns the canonical text of its fuzz set.
func FuzzString(s string) ([]string, error) {
	a, err := Parse(s)
	if err != nil {
		return nil, err
	}

	variants := Fuzz(a)
	out := make([]string, len(variants))
	for i, v := range variants {
		out[i] = v.String()
	}
	return out, nil
}
