// Package mac provides the EUI-48 address value type used to correlate
// access points seen by a zone player with entries in the host's neighbor
// cache.
//
// # Fuzzing
//
// Many access points carry two radios (or a radio and a wired port) whose
// MAC addresses differ only in their low-order bytes. The address a zone
// player reports for its access point is therefore often not the one found
// in the host's ARP table. Fuzz expands one address into the seven
// addresses most likely to belong to the same box:
//
//	a := mac.MustParse("80:2A:A8:D1:07:95")
//	for _, v := range mac.Fuzz(a) {
//	    fmt.Println(v)
//	}
//
// Components wrap modulo 256 without carrying into their neighbour, so
// FF+1 becomes 00 and 00-1 becomes FF.
package mac
