package netpolicy

import (
	"net/netip"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Schemes(t *testing.T) {
	p := Default()

	tests := []struct {
		scheme string
		want   bool
	}{
		{"http", true},
		{"https", true},
		{"HTTP", true},
		{"HtTpS", true},
		{"ftp", false},
		{"file", false},
		{"javascript", false},
		{"gopher", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			assert.Equal(t, tt.want, p.IsSchemeAllowed(tt.scheme))
		})
	}
}

func TestDefault_Ports(t *testing.T) {
	p := Default()

	for _, port := range DefaultBlockedPorts {
		assert.Truef(t, p.IsPortBlocked(port), "port %d should be blocked", port)
	}
	for _, port := range []int{80, 443, 8080, 8443, 3000, 8000} {
		assert.Falsef(t, p.IsPortBlocked(port), "port %d should be allowed", port)
	}

	ports := p.BlockedPorts()
	assert.Len(t, ports, len(DefaultBlockedPorts))
	assert.True(t, slices.IsSorted(ports))
}

func TestDefault_Addresses(t *testing.T) {
	p := Default()

	blocked := []string{
		"127.0.0.1", "127.255.255.254",
		"10.1.2.3",
		"172.16.0.1", "172.31.255.255",
		"192.168.1.1",
		"169.254.169.254",
		"0.0.0.0",
		"::1",
		"::",
		"fc00::1", "fd12:3456::1",
		"fe80::1",
		"::ffff:127.0.0.1",
		"::ffff:10.0.0.1",
		"fe80::1%eth0",
	}
	for _, a := range blocked {
		assert.Truef(t, p.IsAddressBlocked(netip.MustParseAddr(a)), "%s should be blocked", a)
	}

	allowed := []string{"8.8.8.8", "93.184.216.34", "172.32.0.1", "2606:4700:4700::1111"}
	for _, a := range allowed {
		assert.Falsef(t, p.IsAddressBlocked(netip.MustParseAddr(a)), "%s should be allowed", a)
	}

	assert.True(t, p.IsAddressBlocked(netip.Addr{}), "invalid address must be treated as blocked")
}

func TestDefault_NetworkCount(t *testing.T) {
	assert.Len(t, Default().BlockedNetworks(), 11)
}

func TestNew_RejectsBadTables(t *testing.T) {
	_, err := New(DefaultAllowedSchemes, []int{0}, nil)
	assert.Error(t, err)

	_, err = New(DefaultAllowedSchemes, nil, []string{"10.0.0.0"})
	assert.Error(t, err)
}

func TestExtend(t *testing.T) {
	base := Default()

	extended, err := base.Extend([]int{9200}, []string{"100.64.0.0/10"})
	require.NoError(t, err)

	assert.True(t, extended.IsPortBlocked(9200))
	assert.True(t, extended.IsPortBlocked(6379))
	assert.True(t, extended.IsAddressBlocked(netip.MustParseAddr("100.64.1.1")))
	assert.True(t, extended.IsAddressBlocked(netip.MustParseAddr("10.0.0.1")))
	assert.True(t, extended.IsSchemeAllowed("https"))

	// receiver untouched
	assert.False(t, base.IsPortBlocked(9200))
	assert.False(t, base.IsAddressBlocked(netip.MustParseAddr("100.64.1.1")))

	_, err = base.Extend(nil, []string{"bogus/24"})
	assert.Error(t, err)
}
