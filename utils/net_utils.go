package utils

import (
	"net"
	"time"
)

const (
	LoopbackAddress = "127.0.0.1"

	// no packet is sent, dialing udp only makes the kernel pick a route
	routeProbeAddress = "8.8.8.8:80"
	routeProbeTimeout = time.Second
)

// OutboundIP returns the local address the OS would use for outbound traffic, loopback on any failure
func OutboundIP() string {
	conn, err := net.DialTimeout("udp", routeProbeAddress, routeProbeTimeout)
	if err != nil {
		return LoopbackAddress
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil || addr.IP.IsUnspecified() {
		return LoopbackAddress
	}
	return addr.IP.String()
}
