package net

import (
	"net"
	"testing"
)

func TestFirstIPv4(t *testing.T) {
	_, v6, _ := net.ParseCIDR("fe80::1/64")
	addrs := []net.Addr{
		&net.IPAddr{IP: net.ParseIP("10.0.0.9")},
		&net.IPNet{IP: v6.IP, Mask: v6.Mask},
		&net.IPNet{IP: net.ParseIP("192.168.1.17"), Mask: net.CIDRMask(24, 32)},
	}
	ip, ok := firstIPv4(addrs)
	if !ok || ip != "192.168.1.17" {
		t.Fatalf("got %q, %v", ip, ok)
	}
	if _, ok := firstIPv4(addrs[:2]); ok {
		t.Error("found ipv4 among non ipv4 addresses")
	}
}
