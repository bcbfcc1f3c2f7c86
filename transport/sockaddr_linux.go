//go:build linux
// +build linux

// File: transport/sockaddr_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Conversions between net IP addresses and raw socket addresses.

package transport

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// Sockaddr converts ip/port/zone to a raw address and its family. A nil ip
// binds the IPv4 wildcard.
func Sockaddr(ip net.IP, port int, zone string) (family int, sa unix.Sockaddr, err error) {
	if ip4 := ip.To4(); ip4 != nil || ip == nil {
		s := &unix.SockaddrInet4{Port: port}
		if ip4 != nil {
			copy(s.Addr[:], ip4)
		}
		return unix.AF_INET, s, nil
	}
	if ip6 := ip.To16(); ip6 != nil {
		s := &unix.SockaddrInet6{Port: port}
		copy(s.Addr[:], ip6)
		if zone != "" {
			ifi, err := net.InterfaceByName(zone)
			if err != nil {
				return 0, nil, fmt.Errorf("zone %q: %w", zone, err)
			}
			s.ZoneId = uint32(ifi.Index)
		}
		return unix.AF_INET6, s, nil
	}
	return 0, nil, fmt.Errorf("unsupported address %v", ip)
}

// IPPort is the inverse of Sockaddr. ok is false for non-IP families.
func IPPort(sa unix.Sockaddr) (ip net.IP, port int, zone string, ok bool) {
	switch s := sa.(type) {
	case *unix.SockaddrInet4:
		ip = make(net.IP, net.IPv4len)
		copy(ip, s.Addr[:])
		return ip, s.Port, "", true
	case *unix.SockaddrInet6:
		ip = make(net.IP, net.IPv6len)
		copy(ip, s.Addr[:])
		if s.ZoneId != 0 {
			if ifi, err := net.InterfaceByIndex(int(s.ZoneId)); err == nil {
				zone = ifi.Name
			}
		}
		return ip, s.Port, zone, true
	default:
		return nil, 0, "", false
	}
}
