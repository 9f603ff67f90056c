package entity

import (
	"net/netip"
	"net/url"
)

// RejectReason classifies why a URL failed validation.
type RejectReason string

const (
	// RejectNone is the reason on a valid result.
	RejectNone RejectReason = ""
	// RejectMissing means the URL was empty or whitespace.
	RejectMissing RejectReason = "missing"
	// RejectMalformed means the URL could not be parsed as an absolute URI.
	RejectMalformed RejectReason = "malformed"
	// RejectScheme means the scheme is not in the allow-list.
	RejectScheme RejectReason = "scheme"
	// RejectPort means the effective port is in the block-list.
	RejectPort RejectReason = "port"
	// RejectUnresolvable means DNS resolution failed or returned nothing.
	RejectUnresolvable RejectReason = "unresolvable"
	// RejectPrivateNetwork means a resolved address is inside a blocked network.
	RejectPrivateNetwork RejectReason = "private_network"
)

// IsInputError reports whether the reason is a bad-input signal that precedes
// URI parsing, as opposed to a policy violation.
func (r RejectReason) IsInputError() bool {
	return r == RejectMissing
}

// URLValidation is the outcome of validating an outbound URL.
// The zero value is invalid, carries no message and no URL; it must never be
// treated as a successful validation.
type URLValidation struct {
	Valid        bool
	ErrorMessage string
	Reason       RejectReason

	// URL is the parsed URL; nil unless Valid.
	URL *url.URL

	// Addresses holds every address the host resolved to. A fetcher may dial
	// these directly to avoid re-resolving the host.
	Addresses []netip.Addr
}

// Invalid builds a failed validation result.
func Invalid(reason RejectReason, message string) URLValidation {
	return URLValidation{Reason: reason, ErrorMessage: message}
}

// Validated builds a successful validation result.
func Validated(u *url.URL, addrs []netip.Addr) URLValidation {
	return URLValidation{Valid: true, URL: u, Addresses: addrs}
}
