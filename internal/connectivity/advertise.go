package connectivity

import (
	"fmt"

	"github.com/grandcat/zeroconf"
)

// ServiceType is the DNS-SD service the report listener is announced under.
const ServiceType = "_rivermon._tcp"

// Advertiser announces the report listener over mDNS.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers instance on port in the local domain.
func Advertise(instance string, port int, bootID string) (*Advertiser, error) {
	server, err := zeroconf.Register(instance, ServiceType, "local.", port, txtRecords(bootID), nil)
	if err != nil {
		return nil, fmt.Errorf("mdns register: %w", err)
	}
	return &Advertiser{server: server}, nil
}

func (a *Advertiser) Shutdown() {
	a.server.Shutdown()
}

func txtRecords(bootID string) []string {
	return []string{
		"path=/",
		"report=/send_report",
		"boot_id=" + bootID,
	}
}
