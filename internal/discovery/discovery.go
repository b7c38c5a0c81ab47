/*
 * Copyright (c) 2026 Maelstrom Toolkit Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package discovery finds other maelstrom node processes on the local
network via mDNS. It has nothing to do with the Maelstrom harness
protocol (spec §1-9) — the harness always hands a node its full peer
list at init time. This package exists for the case the harness isn't
driving things: an operator running workload binaries by hand who
wants to find what else is listening on the LAN before wiring up a
cluster by hand.
*/
package discovery

import (
	"fmt"
	"time"

	"github.com/hashicorp/mdns"
)

const (
	serviceName = "_maelstrom._tcp"
	domain      = "local."
)

// DiscoveredNode is one mDNS-advertised maelstrom process.
type DiscoveredNode struct {
	NodeID  string
	Addr    string
	Port    int
	Version string
}

// Config controls whether this process advertises itself in addition
// to browsing for peers.
type Config struct {
	// NodeID is advertised as the mDNS instance name. Required when
	// Advertise is true.
	NodeID string
	// Port is advertised alongside NodeID.
	Port int
	// Version is advertised as a TXT record, informational only.
	Version string
	// Advertise, when true, registers an mDNS service for this
	// process in addition to browsing for others.
	Advertise bool
}

// Service advertises (optionally) and discovers maelstrom processes
// on the LAN.
type Service struct {
	cfg    Config
	server *mdns.Server
}

// NewService constructs a Service. If cfg.Advertise is set, the
// process's mDNS service is registered immediately; call Close to
// unregister it.
func NewService(cfg Config) (*Service, error) {
	s := &Service{cfg: cfg}
	if !cfg.Advertise {
		return s, nil
	}
	if cfg.NodeID == "" {
		return nil, fmt.Errorf("discovery: NodeID required to advertise")
	}

	txt := []string{"version=" + cfg.Version}
	info, err := mdns.NewMDNSService(cfg.NodeID, serviceName, domain, "", cfg.Port, nil, txt)
	if err != nil {
		return nil, fmt.Errorf("discovery: build service record: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: info})
	if err != nil {
		return nil, fmt.Errorf("discovery: start mdns server: %w", err)
	}
	s.server = server
	return s, nil
}

// Close unregisters this process's advertisement, if any.
func (s *Service) Close() error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown()
}

// Discover browses the LAN for maelstrom processes for the given
// duration and returns whatever answered.
func (s *Service) Discover(timeout time.Duration) ([]DiscoveredNode, error) {
	entriesCh := make(chan *mdns.ServiceEntry, 32)
	done := make(chan struct{})

	var found []DiscoveredNode
	go func() {
		defer close(done)
		for entry := range entriesCh {
			found = append(found, DiscoveredNode{
				NodeID:  entry.Name,
				Addr:    entry.AddrV4.String(),
				Port:    entry.Port,
				Version: versionFromTXT(entry.InfoFields),
			})
		}
	}()

	params := &mdns.QueryParam{
		Service:     serviceName,
		Domain:      "local",
		Timeout:     timeout,
		Entries:     entriesCh,
		DisableIPv6: true,
	}
	if err := mdns.Query(params); err != nil {
		close(entriesCh)
		return nil, fmt.Errorf("discovery: query: %w", err)
	}
	close(entriesCh)
	<-done

	return found, nil
}

func versionFromTXT(fields []string) string {
	const prefix = "version="
	for _, f := range fields {
		if len(f) > len(prefix) && f[:len(prefix)] == prefix {
			return f[len(prefix):]
		}
	}
	return ""
}
