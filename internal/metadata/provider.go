package metadata

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reelfinder/reelfinder/internal/config"
	"github.com/reelfinder/reelfinder/internal/metadata/mock"
	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
)

// Compile-time interface checks.
var (
	_ OMDBClient = (*omdb.Client)(nil)
	_ OMDBClient = (*mock.OMDBClient)(nil)
)

// NewOMDBClient returns the client selected by cfg.Mode.
func NewOMDBClient(cfg config.OMDBConfig, logger zerolog.Logger) (OMDBClient, error) {
	var client OMDBClient
	switch cfg.Mode {
	case config.OMDbModeLive, "":
		client = omdb.NewClient(cfg, logger)
	case config.OMDbModeStatic:
		client = mock.NewOMDBClient(cfg.APIKey, logger)
	default:
		return nil, fmt.Errorf("unknown omdb mode %q", cfg.Mode)
	}

	if !client.IsConfigured() {
		logger.Warn().Str("client", client.Name()).Msg("OMDb API key not configured, searches will be rejected by the server")
	} else {
		logger.Info().Str("client", client.Name()).Msg("OMDb client ready")
	}
	return client, nil
}
