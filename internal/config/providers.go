package config

import (
	"fmt"
	"strings"
)

// Provider is one entry of the provider catalog.
type Provider struct {
	ID   string `toml:"id" json:"id"`
	Name string `toml:"name" json:"name"`
}

// DefaultProviders is the catalog shipped with hrs.
var DefaultProviders = []Provider{
	{ID: "gusto", Name: "Gusto"},
	{ID: "bamboo_hr", Name: "BambooHR"},
	{ID: "justworks", Name: "Justworks"},
	{ID: "paychex_flex", Name: "Paychex Flex"},
	{ID: "workday", Name: "Workday"},
	{ID: "adp_run", Name: "ADP RUN"},
	{ID: "bob", Name: "Bob"},
	{ID: "insperity", Name: "Insperity"},
	{ID: "paylocity", Name: "Paylocity"},
	{ID: "rippling", Name: "Rippling"},
	{ID: "sequoia_one", Name: "Sequoia One"},
	{ID: "trinet", Name: "TriNet"},
	{ID: "zenefits", Name: "Zenefits"},
}

// ValidateProviders rejects an empty catalog, blank ids and duplicate ids.
func ValidateProviders(providers []Provider) error {
	if len(providers) == 0 {
		return ErrNoProviders
	}
	seen := make(map[string]bool, len(providers))
	for i, p := range providers {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return fmt.Errorf("provider[%d] invalid: id is required", i)
		}
		if seen[id] {
			return fmt.Errorf("provider[%d] invalid: duplicate id %q", i, id)
		}
		seen[id] = true
	}
	return nil
}

// DefaultProvider returns the first catalog entry.
func (c *Config) DefaultProvider() Provider {
	if len(c.Providers) == 0 {
		return Provider{}
	}
	return c.Providers[0]
}

// Provider looks up a catalog entry by id.
func (c *Config) Provider(id string) (Provider, error) {
	for _, p := range c.Providers {
		if p.ID == id {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("%w %q", ErrUnknownProvider, id)
}

// ResolveProvider returns the provider for id, or the default when id is empty.
func (c *Config) ResolveProvider(id string) (Provider, error) {
	if strings.TrimSpace(id) == "" {
		if len(c.Providers) == 0 {
			return Provider{}, ErrNoProviders
		}
		return c.DefaultProvider(), nil
	}
	return c.Provider(id)
}
