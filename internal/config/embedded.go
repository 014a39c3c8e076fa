package config

// EmbeddedOMDbKey is an OMDb API key injected at build time via ldflags.
// It is only a default: REELFINDER_OMDB_API_KEY or the config file win.
//
// Build with:
//
//	go build -ldflags "-X 'github.com/reelfinder/reelfinder/internal/config.EmbeddedOMDbKey=xxx'"
var EmbeddedOMDbKey string

// Version is the release version, set at build time via ldflags.
var Version = "dev"
