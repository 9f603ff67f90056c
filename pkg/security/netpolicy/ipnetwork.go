// Package netpolicy provides the outbound network policy used to guard
// server-side fetches against SSRF: allowed URL schemes, blocked ports and
// blocked IP networks expressed as CIDR blocks.
package netpolicy

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// Family identifies the address family of an IPNetwork.
type Family int

const (
	// IPv4 is the 32-bit address family.
	IPv4 Family = iota + 1
	// IPv6 is the 128-bit address family.
	IPv6
)

// String returns "IPv4" or "IPv6".
func (f Family) String() string {
	switch f {
	case IPv4:
		return "IPv4"
	case IPv6:
		return "IPv6"
	default:
		return "unknown"
	}
}

// ParseError reports a CIDR string that could not be parsed.
type ParseError struct {
	Input  string
	Reason string
}

// Error returns a formatted parse error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid CIDR %q: %s", e.Input, e.Reason)
}

// IPNetwork is an immutable CIDR block. The base address is masked to the
// prefix length when the value is constructed.
type IPNetwork struct {
	family Family
	prefix netip.Prefix
}

// ParseIPNetwork parses "address/prefixLength" into an IPNetwork.
//
// The separator, the address and the prefix length are all mandatory, and the
// prefix length must fit the address family (0..32 for IPv4, 0..128 for IPv6).
// Host bits present in the address are cleared.
//
// Example:
//
//	n, err := ParseIPNetwork("192.168.1.77/24")
//	// n.String() == "192.168.1.0/24"
func ParseIPNetwork(text string) (IPNetwork, error) {
	addrText, bitsText, found := strings.Cut(text, "/")
	if !found {
		return IPNetwork{}, &ParseError{Input: text, Reason: "missing '/' separator"}
	}
	if addrText == "" {
		return IPNetwork{}, &ParseError{Input: text, Reason: "missing address"}
	}
	if bitsText == "" {
		return IPNetwork{}, &ParseError{Input: text, Reason: "missing prefix length"}
	}

	addr, err := netip.ParseAddr(addrText)
	if err != nil {
		return IPNetwork{}, &ParseError{Input: text, Reason: "malformed address"}
	}
	if addr.Zone() != "" {
		return IPNetwork{}, &ParseError{Input: text, Reason: "zoned address"}
	}

	bits, err := strconv.Atoi(bitsText)
	if err != nil {
		return IPNetwork{}, &ParseError{Input: text, Reason: "prefix length is not a number"}
	}
	if bits < 0 || bits > addr.BitLen() {
		return IPNetwork{}, &ParseError{
			Input:  text,
			Reason: fmt.Sprintf("prefix length %d out of range 0..%d", bits, addr.BitLen()),
		}
	}

	family := IPv6
	if addr.Is4() {
		family = IPv4
	}

	prefix, err := addr.Prefix(bits)
	if err != nil {
		return IPNetwork{}, &ParseError{Input: text, Reason: err.Error()}
	}

	return IPNetwork{family: family, prefix: prefix}, nil
}

// MustParseIPNetwork is like ParseIPNetwork but panics on error.
// It is intended for package-level tables built from constants.
func MustParseIPNetwork(text string) IPNetwork {
	n, err := ParseIPNetwork(text)
	if err != nil {
		panic(err)
	}
	return n
}

// Family returns the address family of the network.
func (n IPNetwork) Family() Family {
	return n.family
}

// Base returns the masked base address.
func (n IPNetwork) Base() netip.Addr {
	return n.prefix.Addr()
}

// Bits returns the prefix length.
func (n IPNetwork) Bits() int {
	return n.prefix.Bits()
}

// Contains reports whether addr lies inside the network.
// Addresses of a different family never match, so an IPv4-mapped IPv6 address
// is not contained in an IPv4 network; callers normalize with Unmap first.
func (n IPNetwork) Contains(addr netip.Addr) bool {
	if !n.prefix.IsValid() || !addr.IsValid() {
		return false
	}
	if addr.Is4() != (n.family == IPv4) {
		return false
	}
	masked, err := addr.WithZone("").Prefix(n.prefix.Bits())
	if err != nil {
		return false
	}
	return masked.Addr() == n.prefix.Addr()
}

// String returns the canonical CIDR form of the network.
func (n IPNetwork) String() string {
	return n.prefix.String()
}
