// Package neighbor builds a reverse table from MAC address to host name out
// of the host's neighbor (ARP) cache.
//
// A zone player only knows the MAC address of the access point it is
// associated with. To print a name instead, the table maps every address in
// the neighbor cache, and the six fuzzed variants of each (see mac.Fuzz), to
// the reverse DNS name of the entry's IP address.
//
// # Sources
//
// On Linux the cache is read over rtnetlink and falls back to
// /proc/net/arp. Other platforms can point ProcSource at a file in the same
// format. A missing cache is not an error; the table is simply empty.
//
// # Usage
//
//	namer := neighbor.NewNamer(nil)
//	table := neighbor.BuildTable(ctx, neighbor.DefaultSource(""), namer)
//	if host, ok := table.LookupString("80:2A:A8:D1:07:95"); ok {
//	    fmt.Println(host)
//	}
package neighbor
