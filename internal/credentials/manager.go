// Package credentials decides whether a run can reuse cached credentials
// or has to scrape the doctor's profile page again.
package credentials

import (
	"context"
	"fmt"
	"log/slog"

	"slotscraper/internal/cache"
	"slotscraper/internal/core"
)

// ProfileFetcher downloads a raw profile page
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, profileURL string) ([]byte, error)
}

// Manager resolves credentials for a profile URL.
// Doctor parameters are scraped once per doctor and kept indefinitely;
// the shared access token is scraped again whenever it has expired.
type Manager struct {
	cache     *cache.ModelCache
	fetcher   ProfileFetcher
	extractor core.ProfileExtractor
	resolver  *core.Resolver
	clock     core.Clock
	logger    *slog.Logger
}

// NewManager creates a new credentials manager
func NewManager(
	modelCache *cache.ModelCache,
	fetcher ProfileFetcher,
	extractor core.ProfileExtractor,
	resolver *core.Resolver,
	clock core.Clock,
	logger *slog.Logger,
) *Manager {
	if clock == nil {
		clock = core.RealClock{}
	}
	if resolver == nil {
		resolver = core.NewResolver(nil)
	}
	return &Manager{
		cache:     modelCache,
		fetcher:   fetcher,
		extractor: extractor,
		resolver:  resolver,
		clock:     clock,
		logger:    logger.With("component", "credentials"),
	}
}

// Resolve returns a token and doctor parameters for profileURL.
//
//	cached params | cached token valid | action
//	present       | yes                | reuse both, no request
//	present       | no                 | fetch page, refresh token only
//	absent        | any                | fetch page, resolve and store both
func (m *Manager) Resolve(ctx context.Context, profileURL string) (*core.Credentials, error) {
	key, keyOK := cache.DoctorParamsKey(profileURL)
	if !keyOK {
		m.logger.Warn("profile URL has no path segment, doctor parameters will not be cached",
			"url", profileURL)
	}

	params, err := m.cachedParams(ctx, key, keyOK)
	if err != nil {
		return nil, err
	}

	token, err := m.cache.LoadToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached token: %w", err)
	}
	tokenValid := token != nil && !token.IsExpired(m.clock.Now())

	if params != nil && tokenValid {
		m.logger.Info("cache hit",
			"doctor_id", params.DoctorID,
			"address_id", params.AddressID,
			"token_expires_at", token.ExpiresAt)
		return &core.Credentials{Token: token, Params: params}, nil
	}

	doc, err := m.fetchDocument(ctx, profileURL)
	if err != nil {
		return nil, err
	}

	if params != nil {
		m.logger.Info("token refresh",
			"doctor_id", params.DoctorID,
			"token_cached", token != nil)

		token, err = m.refreshToken(ctx, doc)
		if err != nil {
			return nil, err
		}
		return &core.Credentials{Token: token, Params: params}, nil
	}

	m.logger.Info("full scrape", "url", profileURL)

	token, err = m.refreshToken(ctx, doc)
	if err != nil {
		return nil, err
	}

	params, err = m.resolver.DoctorParams(doc)
	if err != nil {
		return nil, err
	}

	if keyOK {
		if err := m.cache.SaveDoctorParams(ctx, key, params); err != nil {
			return nil, fmt.Errorf("failed to cache doctor parameters: %w", err)
		}
	}

	return &core.Credentials{Token: token, Params: params}, nil
}

func (m *Manager) cachedParams(ctx context.Context, key string, keyOK bool) (*core.DoctorParams, error) {
	if !keyOK {
		return nil, nil
	}

	params, err := m.cache.LoadDoctorParams(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached doctor parameters: %w", err)
	}
	if params == nil {
		return nil, nil
	}

	if err := params.Validate(); err != nil {
		m.logger.Warn("ignoring incomplete cached doctor parameters", "key", key, "error", err)
		return nil, nil
	}
	return params, nil
}

func (m *Manager) fetchDocument(ctx context.Context, profileURL string) (core.ProfileDocument, error) {
	page, err := m.fetcher.FetchProfile(ctx, profileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile page: %w", err)
	}

	doc, err := m.extractor.Extract(page)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *Manager) refreshToken(ctx context.Context, doc core.ProfileDocument) (*core.Token, error) {
	token, err := m.resolver.Token(doc)
	if err != nil {
		return nil, err
	}

	if err := m.cache.SaveToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to cache token: %w", err)
	}
	return token, nil
}

var _ core.CredentialResolver = (*Manager)(nil)
