package socket

import (
	"net"
	"net/netip"
	"strconv"
)

// zoneIndex maps an IPv6 zone (interface name or number) to the scope id
// used in native socket addresses.
func zoneIndex(zone string) uint32 {
	if zone == "" {
		return 0
	}
	if n, err := strconv.ParseUint(zone, 10, 32); err == nil {
		return uint32(n)
	}
	if ifi, err := net.InterfaceByName(zone); err == nil {
		return uint32(ifi.Index)
	}
	return 0
}

func zoneName(index uint32) string {
	if index == 0 {
		return ""
	}
	if ifi, err := net.InterfaceByIndex(int(index)); err == nil {
		return ifi.Name
	}
	return strconv.FormatUint(uint64(index), 10)
}

func addrPortFrom16(ip [16]byte, port int, zone uint32) netip.AddrPort {
	a := netip.AddrFrom16(ip)
	if z := zoneName(zone); z != "" {
		a = a.WithZone(z)
	}
	return netip.AddrPortFrom(a, uint16(port))
}
