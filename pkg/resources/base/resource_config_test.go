package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceConfig_URLs(t *testing.T) {
	assert.Equal(t, "/virtual-network/abc-123", testConfig.GetURL("abc-123"))
	assert.Equal(t, "/virtual-network/abc-123", testConfig.ResourceURL("abc-123"))
	assert.Equal(t, "/virtual-networks", testConfig.CollectionURL())
}

func TestResourceConfig_Validate(t *testing.T) {
	assert.NoError(t, testConfig.Validate())

	tests := []struct {
		name   string
		mutate func(c *ResourceConfig)
	}{
		{"missing type", func(c *ResourceConfig) { c.ResourceType = "" }},
		{"missing get path", func(c *ResourceConfig) { c.PathGet = "" }},
		{"missing put path", func(c *ResourceConfig) { c.PathPut = "" }},
		{"missing post path", func(c *ResourceConfig) { c.PathPost = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
