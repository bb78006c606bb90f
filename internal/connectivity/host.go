package connectivity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
)

var errNoAddress = errors.New("no usable address")

// HostLink treats the host's network stack as the radio. Association is
// managed by the OS, so the credentials are only logged; the link is up once
// the watched interface carries an address.
type HostLink struct {
	iface  string
	logger *slog.Logger

	// interfaces is swapped in tests.
	interfaces func() ([]net.Interface, error)
	addrs      func(net.Interface) ([]net.Addr, error)
}

// NewHostLink watches the named interface, or any up non-loopback interface
// when name is empty.
func NewHostLink(name string, logger *slog.Logger) *HostLink {
	return &HostLink{
		iface:      name,
		logger:     logger,
		interfaces: net.Interfaces,
		addrs:      func(i net.Interface) ([]net.Addr, error) { return i.Addrs() },
	}
}

func (h *HostLink) Associate(ctx context.Context, creds Credentials) (netip.Addr, error) {
	if err := ctx.Err(); err != nil {
		return netip.Addr{}, err
	}
	if creds.SSID != "" {
		h.logger.Debug("associating", "ssid", creds.SSID)
	}

	ifaces, err := h.interfaces()
	if err != nil {
		return netip.Addr{}, fmt.Errorf("list interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if !h.watches(iface) {
			continue
		}
		addrs, err := h.addrs(iface)
		if err != nil {
			continue
		}
		if addr, ok := pickAddr(addrs); ok {
			return addr, nil
		}
	}

	if h.iface != "" {
		return netip.Addr{}, fmt.Errorf("interface %s: %w", h.iface, errNoAddress)
	}
	return netip.Addr{}, errNoAddress
}

func (h *HostLink) watches(iface net.Interface) bool {
	if h.iface != "" {
		return iface.Name == h.iface
	}
	return iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagLoopback == 0
}

// pickAddr prefers IPv4 and skips link-local addresses.
func pickAddr(addrs []net.Addr) (netip.Addr, bool) {
	var fallback netip.Addr
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		addr, ok := netip.AddrFromSlice(ipnet.IP)
		if !ok {
			continue
		}
		addr = addr.Unmap()
		if addr.IsLinkLocalUnicast() || addr.IsUnspecified() {
			continue
		}
		if addr.Is4() {
			return addr, true
		}
		if !fallback.IsValid() {
			fallback = addr
		}
	}
	return fallback, fallback.IsValid()
}
