// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"
	"github.com/platform-engineering-labs/formae/pkg/model"
)

const (
	DefaultDomain     = "default-domain"
	DefaultUserDomain = "Default"

	// CatalogServiceType is the Keystone service type the Contrail API registers under
	CatalogServiceType = "sdn"
)

// Config holds Contrail API and Keystone configuration
// Note: Only endpoints and the default domain/project are stored in the target config.
// Credentials are always read from environment variables to avoid storing secrets in the database.
type Config struct {
	// Stored in target config (non-sensitive)
	APIURL  string `json:"apiURL"`  // http://contrail:8082
	AuthURL string `json:"authURL"` // Keystone v3 endpoint; empty disables Keystone
	Region  string `json:"region"`
	Domain  string `json:"domain"`  // Default fq_name domain
	Project string `json:"project"` // Default fq_name project

	// Read from environment variables only (never stored)
	Username   string `json:"-"` // From OS_USERNAME
	Password   string `json:"-"` // From OS_PASSWORD
	ProjectID  string `json:"-"` // From OS_PROJECT_ID
	DomainName string `json:"-"` // From OS_USER_DOMAIN_NAME
	Token      string `json:"-"` // From CONTRAIL_AUTH_TOKEN
}

// FromTarget extracts Contrail configuration from a Target
func FromTarget(target *model.Target) (*Config, error) {
	if target == nil {
		return nil, fmt.Errorf("target is nil")
	}
	return FromTargetConfig(target.Config)
}

// FromTargetConfig extracts Contrail configuration from a TargetConfig JSON.
// Missing endpoints fall back to environment variables; credentials always come from the environment.
func FromTargetConfig(targetConfig json.RawMessage) (*Config, error) {
	var cfg Config

	if len(targetConfig) > 0 {
		if err := json.Unmarshal(targetConfig, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal target config: %w", err)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a configuration from environment variables alone
func FromEnv() *Config {
	cfg := &Config{}
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv fills unset fields from the environment
func (c *Config) ApplyEnv() {
	setFromEnv(&c.APIURL, "CONTRAIL_API_URL")
	setFromEnv(&c.AuthURL, "OS_AUTH_URL")
	setFromEnv(&c.Region, "OS_REGION_NAME")
	setFromEnv(&c.Domain, "CONTRAIL_DOMAIN")
	setFromEnv(&c.Project, "CONTRAIL_PROJECT")
	if c.Domain == "" {
		c.Domain = DefaultDomain
	}

	// Credentials are ALWAYS read from environment variables (never stored)
	c.Username = os.Getenv("OS_USERNAME")
	c.Password = os.Getenv("OS_PASSWORD")
	c.ProjectID = os.Getenv("OS_PROJECT_ID")
	c.DomainName = os.Getenv("OS_USER_DOMAIN_NAME")
	if c.DomainName == "" {
		c.DomainName = DefaultUserDomain
	}
	c.Token = os.Getenv("CONTRAIL_AUTH_TOKEN")
}

func setFromEnv(field *string, key string) {
	if *field == "" {
		*field = os.Getenv(key)
	}
}

// Validate checks that the configuration can reach an API
func (c *Config) Validate() error {
	if c.APIURL == "" && c.AuthURL == "" {
		return fmt.Errorf("apiURL is required (set CONTRAIL_API_URL or provide in target config)")
	}
	if c.UsesKeystone() {
		if c.Username == "" {
			return fmt.Errorf("OS_USERNAME environment variable is required when authURL is set")
		}
		if c.Password == "" {
			return fmt.Errorf("OS_PASSWORD environment variable is required when authURL is set")
		}
	}
	return nil
}

// UsesKeystone reports whether requests are authenticated through Keystone
func (c *Config) UsesKeystone() bool {
	return c.AuthURL != ""
}

// ToAuthOptions converts Config to gophercloud AuthOptions.
// Without OS_PROJECT_ID the token is scoped to the Contrail project by name.
func (c *Config) ToAuthOptions() gophercloud.AuthOptions {
	opts := gophercloud.AuthOptions{
		IdentityEndpoint: c.AuthURL,
		Username:         c.Username,
		Password:         c.Password,
		DomainName:       c.DomainName,
		AllowReauth:      true,
	}
	if c.ProjectID != "" {
		opts.TenantID = c.ProjectID
	} else {
		opts.TenantName = c.Project
	}
	return opts
}

// Authenticate creates a provider client. Keystone is used when an auth URL is set,
// otherwise a static token if one is configured, otherwise no authentication.
func (c *Config) Authenticate(ctx context.Context) (*gophercloud.ProviderClient, error) {
	if !c.UsesKeystone() {
		provider := &gophercloud.ProviderClient{}
		if c.Token != "" {
			provider.UseTokenLock()
			provider.SetToken(c.Token)
		}
		return provider, nil
	}

	opts := c.ToAuthOptions()
	provider, err := openstack.NewClient(opts.IdentityEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create Keystone client: %w", err)
	}

	if err := openstack.Authenticate(ctx, provider, opts); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Keystone: %w", err)
	}
	return provider, nil
}

// Endpoint returns the Contrail API URL. Without an explicit URL the
// Keystone catalog is searched for the sdn service in the configured region.
func (c *Config) Endpoint(provider *gophercloud.ProviderClient) (string, error) {
	if c.APIURL != "" {
		return c.APIURL, nil
	}
	if provider == nil || provider.EndpointLocator == nil {
		return "", fmt.Errorf("apiURL is required when the service catalog is unavailable")
	}

	url, err := provider.EndpointLocator(gophercloud.EndpointOpts{
		Type:         CatalogServiceType,
		Region:       c.Region,
		Availability: gophercloud.AvailabilityPublic,
	})
	if err != nil {
		return "", fmt.Errorf("failed to locate Contrail API in service catalog: %w", err)
	}
	return url, nil
}
