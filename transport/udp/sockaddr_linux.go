//go:build linux
// +build linux

// File: transport/udp/sockaddr_linux.go
// Author: momentics <momentics@gmail.com>

package udp

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/transport"
)

func toSockaddr(a *net.UDPAddr) (int, unix.Sockaddr, error) {
	family, sa, err := transport.Sockaddr(a.IP, a.Port, a.Zone)
	if err != nil {
		return 0, nil, fmt.Errorf("udp: %w", err)
	}
	return family, sa, nil
}

func fromSockaddr(sa unix.Sockaddr) *net.UDPAddr {
	ip, port, zone, ok := transport.IPPort(sa)
	if !ok {
		return nil
	}
	return &net.UDPAddr{IP: ip, Port: port, Zone: zone}
}
