package forensics

import (
	"net/netip"
	"regexp"
)

var ipv4Pattern = regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)

// ExtractIPs returns the public IPv4 addresses found in text, deduplicated
// in first-seen order. Private, loopback, link-local, multicast and
// malformed addresses are skipped.
func ExtractIPs(text string) []string {
	seen := make(map[netip.Addr]bool)
	var ips []string

	for _, candidate := range ipv4Pattern.FindAllString(text, -1) {
		addr, err := netip.ParseAddr(candidate)
		if err != nil || !isPublic(addr) || seen[addr] {
			continue
		}
		seen[addr] = true
		ips = append(ips, addr.String())
	}

	return ips
}

func isPublic(addr netip.Addr) bool {
	return addr.Is4() &&
		!addr.IsPrivate() &&
		!addr.IsLoopback() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsMulticast() &&
		!addr.IsUnspecified() &&
		addr != netip.AddrFrom4([4]byte{255, 255, 255, 255})
}
