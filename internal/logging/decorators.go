package logging

import (
	"context"
	"log/slog"
	"time"

	"slotscraper/internal/core"
)

// PlatformLogger wraps a BookingPlatform and logs all method calls
type PlatformLogger struct {
	platform core.BookingPlatform
	logger   *slog.Logger
}

// NewPlatformLogger creates a new logging decorator for BookingPlatform
func NewPlatformLogger(platform core.BookingPlatform, logger *slog.Logger) core.BookingPlatform {
	return &PlatformLogger{
		platform: platform,
		logger:   logger.With("interface", "BookingPlatform"),
	}
}

func (l *PlatformLogger) FetchProfile(ctx context.Context, profileURL string) ([]byte, error) {
	start := time.Now()
	l.logger.Info("FetchProfile called",
		"url", profileURL)

	page, err := l.platform.FetchProfile(ctx, profileURL)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("FetchProfile failed",
			"url", profileURL,
			"duration", duration,
			"error", err)
		return nil, err
	}

	l.logger.Info("FetchProfile completed",
		"url", profileURL,
		"bytes", len(page),
		"duration", duration)

	return page, nil
}

func (l *PlatformLogger) GetSlots(ctx context.Context, req core.SlotsRequest) ([]core.Slot, error) {
	start := time.Now()
	l.logger.Info("GetSlots called",
		"doctor_id", req.Params.DoctorID,
		"address_id", req.Params.AddressID,
		"start", req.Query.StartString(),
		"end", req.Query.EndString())

	slots, err := l.platform.GetSlots(ctx, req)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("GetSlots failed",
			"doctor_id", req.Params.DoctorID,
			"address_id", req.Params.AddressID,
			"duration", duration,
			"error", err)
		return nil, err
	}

	l.logger.Info("GetSlots completed",
		"doctor_id", req.Params.DoctorID,
		"address_id", req.Params.AddressID,
		"slots", len(slots),
		"duration", duration)

	return slots, nil
}

// ResolverLogger wraps a CredentialResolver and logs all method calls
type ResolverLogger struct {
	resolver core.CredentialResolver
	logger   *slog.Logger
}

// NewResolverLogger creates a new logging decorator for CredentialResolver
func NewResolverLogger(resolver core.CredentialResolver, logger *slog.Logger) core.CredentialResolver {
	return &ResolverLogger{
		resolver: resolver,
		logger:   logger.With("interface", "CredentialResolver"),
	}
}

func (l *ResolverLogger) Resolve(ctx context.Context, profileURL string) (*core.Credentials, error) {
	start := time.Now()
	l.logger.Debug("Resolve called",
		"url", profileURL)

	creds, err := l.resolver.Resolve(ctx, profileURL)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("Resolve failed",
			"url", profileURL,
			"duration", duration,
			"error", err)
		return nil, err
	}

	l.logger.Debug("Resolve completed",
		"url", profileURL,
		"doctor_id", creds.Params.DoctorID,
		"address_id", creds.Params.AddressID,
		"token_expires_at", creds.Token.ExpiresAt,
		"duration", duration)

	return creds, nil
}
