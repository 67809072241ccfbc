// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package client

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2"

	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/config"
	contrailtransport "github.com/platform-engineering-labs/formae-plugin-contrail/pkg/transport/contrail"
)

// Client is an authenticated Contrail API client
type Client struct {
	*contrailtransport.Client

	Config *config.Config

	// Provider client (for token refresh, etc.)
	provider *gophercloud.ProviderClient
}

// NewClient authenticates with cfg and binds the transport to the Contrail API endpoint
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	provider, err := cfg.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	endpoint, err := cfg.Endpoint(provider)
	if err != nil {
		return nil, err
	}

	api, err := contrailtransport.NewClient(provider, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create Contrail client: %w", err)
	}

	return &Client{
		Client:   api,
		Config:   cfg,
		provider: provider,
	}, nil
}

// Token returns the token sent with every request, if any
func (c *Client) Token() string {
	return c.provider.Token()
}
