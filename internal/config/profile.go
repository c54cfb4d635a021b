package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a named credential profile loaded from a YAML file with
// --profile. Profile values override config-file and environment values for
// the credential fields only.
type Profile struct {
	Backend string `yaml:"backend"`

	Account struct {
		Account         string `yaml:"account"`
		AccessKey       string `yaml:"accessKey"`
		ContainerPrefix string `yaml:"containerPrefix"`
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
	} `yaml:"account"`

	Delegated struct {
		PrivateURL string `yaml:"privateUrl"`
		PublicURL  string `yaml:"publicUrl"`
	} `yaml:"delegated"`

	Vendor struct {
		URL   string `yaml:"url"`
		Token string `yaml:"token"`
	} `yaml:"vendor"`
}

// LoadProfile reads a credential profile file. Unknown fields are rejected
// so typos fail loudly instead of silently dropping a credential.
func LoadProfile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}

// Apply overlays non-empty profile values onto the configuration.
func (p *Profile) Apply(cfg *Config) {
	if p.Backend != "" {
		cfg.Backend = p.Backend
	}
	if p.Account.Account != "" {
		cfg.Account.Account = p.Account.Account
	}
	if p.Account.AccessKey != "" {
		cfg.Account.AccessKey = p.Account.AccessKey
	}
	if p.Account.ContainerPrefix != "" {
		cfg.Account.ContainerPrefix = p.Account.ContainerPrefix
	}
	if p.Account.Endpoint != "" {
		cfg.Account.Endpoint = p.Account.Endpoint
	}
	if p.Account.Region != "" {
		cfg.Account.Region = p.Account.Region
	}
	if p.Delegated.PrivateURL != "" {
		cfg.Delegated.PrivateURL = p.Delegated.PrivateURL
	}
	if p.Delegated.PublicURL != "" {
		cfg.Delegated.PublicURL = p.Delegated.PublicURL
	}
	if p.Vendor.URL != "" {
		cfg.Vendor.URL = p.Vendor.URL
	}
	if p.Vendor.Token != "" {
		cfg.Vendor.Token = p.Vendor.Token
	}
}
