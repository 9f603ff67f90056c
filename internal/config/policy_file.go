package config

import (
	"fmt"
	"os"

	"safefetch/pkg/security/netpolicy"

	"gopkg.in/yaml.v3"
)

// PolicyFile is the optional YAML deployment file.
//
//	policy:
//	  blocked_ports: [8080, 9200]
//	  blocked_networks: ["100.64.0.0/10", "198.18.0.0/15"]
//	search:
//	  engine_id: "0123456789abcdef"
//	  base_url: "https://www.googleapis.com/customsearch/v1"
//
// The search API key is read from the environment only.
type PolicyFile struct {
	Policy struct {
		BlockedPorts    []int    `yaml:"blocked_ports"`
		BlockedNetworks []string `yaml:"blocked_networks"`
	} `yaml:"policy"`
	Search PolicyFileSearch `yaml:"search"`
}

// PolicyFileSearch holds the non-secret search settings of a policy file.
type PolicyFileSearch struct {
	EngineID string `yaml:"engine_id"`
	BaseURL  string `yaml:"base_url"`
}

// LoadPolicyFile loads and validates a policy file.
// The path parameter is expected to come from a trusted source (environment or CLI flag).
func LoadPolicyFile(path string) (*PolicyFile, error) {
	// #nosec G304 -- path is provided by the operator, not request input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var pf PolicyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	if err := pf.validate(); err != nil {
		return nil, fmt.Errorf("policy file validation failed: %w", err)
	}

	return &pf, nil
}

func (pf *PolicyFile) validate() error {
	for _, p := range pf.Policy.BlockedPorts {
		if p < 1 || p > 65535 {
			return fmt.Errorf("blocked port %d out of range", p)
		}
	}
	for _, cidr := range pf.Policy.BlockedNetworks {
		if _, err := netpolicy.ParseIPNetwork(cidr); err != nil {
			return err
		}
	}
	return nil
}

// NetworkPolicy returns the built-in policy extended with the file's entries.
// A nil receiver yields the built-in policy.
func (pf *PolicyFile) NetworkPolicy() (*netpolicy.Policy, error) {
	if pf == nil {
		return netpolicy.Default(), nil
	}
	return netpolicy.Default().Extend(pf.Policy.BlockedPorts, pf.Policy.BlockedNetworks)
}

// BuildNetworkPolicy loads path (if non-empty) and returns the resulting policy.
func BuildNetworkPolicy(path string) (*netpolicy.Policy, error) {
	if path == "" {
		return netpolicy.Default(), nil
	}
	pf, err := LoadPolicyFile(path)
	if err != nil {
		return nil, err
	}
	return pf.NetworkPolicy()
}
