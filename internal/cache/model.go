package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"slotscraper/internal/core"
)

// NewDefaultRegistry registers the token and doctor-parameter record types
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(PrefixToken, func() interface{} { return &core.Token{} })
	registry.Register(PrefixDoctorParams, func() interface{} { return &core.DoctorParams{} })
	return registry
}

// ModelCache serializes records to JSON on top of a Store
type ModelCache struct {
	store    Store
	registry *Registry
}

// NewModelCache creates a model cache over store
func NewModelCache(store Store, registry *Registry) *ModelCache {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	return &ModelCache{
		store:    store,
		registry: registry,
	}
}

// Dump stores the canonical JSON form of model under key
func (c *ModelCache) Dump(ctx context.Context, key string, model interface{}) error {
	data, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := c.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Load decodes the record stored under key into the type registered for its prefix.
// It returns nil without error when nothing is cached or the prefix is unknown.
// A stored value that does not decode is an error.
func (c *ModelCache) Load(ctx context.Context, key string) (interface{}, error) {
	model, err := c.registry.New(PrefixOf(key))
	if errors.Is(err, ErrPrefixNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	if err := json.Unmarshal([]byte(raw), model); err != nil {
		return nil, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return model, nil
}

// LoadToken returns the cached access token, or nil when none is cached
func (c *ModelCache) LoadToken(ctx context.Context) (*core.Token, error) {
	model, err := c.Load(ctx, TokenKey)
	if err != nil || model == nil {
		return nil, err
	}

	token, ok := model.(*core.Token)
	if !ok {
		return nil, fmt.Errorf("cached %s has unexpected type %T", TokenKey, model)
	}
	return token, nil
}

// LoadDoctorParams returns the doctor parameters cached under key, or nil when none are cached
func (c *ModelCache) LoadDoctorParams(ctx context.Context, key string) (*core.DoctorParams, error) {
	model, err := c.Load(ctx, key)
	if err != nil || model == nil {
		return nil, err
	}

	params, ok := model.(*core.DoctorParams)
	if !ok {
		return nil, fmt.Errorf("cached %s has unexpected type %T", key, model)
	}
	return params, nil
}

// SaveToken stores the access token under the shared token key
func (c *ModelCache) SaveToken(ctx context.Context, token *core.Token) error {
	return c.Dump(ctx, TokenKey, token)
}

// SaveDoctorParams stores doctor parameters under key
func (c *ModelCache) SaveDoctorParams(ctx context.Context, key string, params *core.DoctorParams) error {
	return c.Dump(ctx, key, params)
}
