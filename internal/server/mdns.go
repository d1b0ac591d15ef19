package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

const serviceType = "_cosketch._tcp"

// advertise announces the sketch server on the local network so other
// machines can discover it without knowing the address.
func advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"CoSketch"})
	if err != nil {
		return nil, fmt.Errorf("create mDNS service: %w", err)
	}
	srv, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mDNS server: %w", err)
	}
	return srv, nil
}

// Browse reports discovered sketch servers as host:port strings.
func Browse(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	go func() {
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()
	return mdns.Lookup(serviceType, entries)
}
