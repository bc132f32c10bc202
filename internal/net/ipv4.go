package net

import (
	"github.com/pkg/errors"
	"net"
)

var ErrNoIPv4Addr = errors.New("no active interface with an ipv4 address")

// FindAvailableIPv4Addr returns the first IPv4 address of an interface that
// is up and is not a loopback.
func FindAvailableIPv4Addr() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", errors.Wrap(err, "list interfaces")
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			return "", errors.Wrapf(err, "addresses of %s", iface.Name)
		}
		if ip, ok := firstIPv4(addrs); ok {
			return ip, nil
		}
	}
	return "", ErrNoIPv4Addr
}

func firstIPv4(addrs []net.Addr) (string, bool) {
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok {
			if ip4 := ipNet.IP.To4(); ip4 != nil {
				return ip4.String(), true
			}
		}
	}
	return "", false
}
