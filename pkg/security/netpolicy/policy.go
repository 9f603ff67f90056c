package netpolicy

import (
	"fmt"
	"net/netip"
	"slices"
	"strings"
)

// DefaultAllowedSchemes lists the URL schemes an outbound fetch may use.
var DefaultAllowedSchemes = []string{"http", "https"}

// DefaultBlockedPorts lists remote-administration and datastore ports that
// outbound fetches may never target. Ports absent from this list are allowed.
var DefaultBlockedPorts = []int{
	22,    // ssh
	23,    // telnet
	25,    // smtp
	53,    // dns
	110,   // pop3
	143,   // imap
	993,   // imaps
	995,   // pop3s
	1433,  // mssql
	3306,  // mysql
	5432,  // postgres
	6379,  // redis
	11211, // memcached
	27017, // mongodb
}

// DefaultBlockedNetworks lists loopback, private, link-local and reserved
// ranges for both address families.
//
// Reference:
//   - https://tools.ietf.org/html/rfc1918 (Private IPv4)
//   - https://tools.ietf.org/html/rfc4193 (Unique local IPv6)
//   - https://tools.ietf.org/html/rfc3927 (Link-local IPv4)
//   - https://tools.ietf.org/html/rfc4291 (Loopback, unspecified, IPv4-mapped and link-local IPv6)
var DefaultBlockedNetworks = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
	"0.0.0.0/8",
	"::1/128",
	"::/128",
	"::ffff:0:0/96",
	"fc00::/7",
	"fe80::/10",
}

// Policy is an immutable set of outbound network rules.
// It is safe for concurrent use; construct it once and share the pointer.
type Policy struct {
	schemes  map[string]struct{}
	ports    map[int]struct{}
	networks []IPNetwork
}

// New builds a Policy from explicit tables. CIDR strings are parsed eagerly so
// that a bad table fails at startup rather than on the request path.
func New(schemes []string, blockedPorts []int, blockedNetworks []string) (*Policy, error) {
	p := &Policy{
		schemes:  make(map[string]struct{}, len(schemes)),
		ports:    make(map[int]struct{}, len(blockedPorts)),
		networks: make([]IPNetwork, 0, len(blockedNetworks)),
	}
	for _, s := range schemes {
		p.schemes[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, port := range blockedPorts {
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("blocked port %d out of range 1..65535", port)
		}
		p.ports[port] = struct{}{}
	}
	for _, cidr := range blockedNetworks {
		n, err := ParseIPNetwork(strings.TrimSpace(cidr))
		if err != nil {
			return nil, fmt.Errorf("blocked network: %w", err)
		}
		p.networks = append(p.networks, n)
	}
	return p, nil
}

// Default returns the built-in policy.
func Default() *Policy {
	p, err := New(DefaultAllowedSchemes, DefaultBlockedPorts, DefaultBlockedNetworks)
	if err != nil {
		panic(fmt.Sprintf("netpolicy: default tables are invalid: %v", err))
	}
	return p
}

// Extend returns a new Policy with the same schemes and the union of the
// receiver's blocked ports and networks with the given extras. The receiver
// is not modified.
func (p *Policy) Extend(extraPorts []int, extraNetworks []string) (*Policy, error) {
	schemes := make([]string, 0, len(p.schemes))
	for s := range p.schemes {
		schemes = append(schemes, s)
	}
	ports := make([]int, 0, len(p.ports)+len(extraPorts))
	for port := range p.ports {
		ports = append(ports, port)
	}
	ports = append(ports, extraPorts...)
	networks := make([]string, 0, len(p.networks)+len(extraNetworks))
	for _, n := range p.networks {
		networks = append(networks, n.String())
	}
	networks = append(networks, extraNetworks...)
	return New(schemes, ports, networks)
}

// IsSchemeAllowed reports whether scheme is in the allow-list (case-insensitive).
func (p *Policy) IsSchemeAllowed(scheme string) bool {
	_, ok := p.schemes[strings.ToLower(scheme)]
	return ok
}

// IsPortBlocked reports whether port is in the block-list.
func (p *Policy) IsPortBlocked(port int) bool {
	_, ok := p.ports[port]
	return ok
}

// IsAddressBlocked reports whether addr falls inside any blocked network.
// IPv4-mapped IPv6 addresses are unmapped and zones dropped before matching.
func (p *Policy) IsAddressBlocked(addr netip.Addr) bool {
	if !addr.IsValid() {
		return true
	}
	addr = addr.Unmap().WithZone("")
	for _, n := range p.networks {
		if n.Contains(addr) {
			return true
		}
	}
	return false
}

// BlockedPorts returns the blocked ports in ascending order.
func (p *Policy) BlockedPorts() []int {
	out := make([]int, 0, len(p.ports))
	for port := range p.ports {
		out = append(out, port)
	}
	slices.Sort(out)
	return out
}

// BlockedNetworks returns a copy of the blocked network table.
func (p *Policy) BlockedNetworks() []IPNetwork {
	out := make([]IPNetwork, len(p.networks))
	copy(out, p.networks)
	return out
}
