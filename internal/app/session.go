package app

import (
	"errors"
	"net/http"
	"os"

	"github.com/philipparndt/gomesh/internal/config"
	"github.com/philipparndt/gomesh/internal/logger"
	"go.uber.org/zap"
)

// ErrNoEntries is returned when the arguments name no mesh files
var ErrNoEntries = errors.New("no mesh files found")

// CollectEntries expands the command line arguments into the file list.
// Directories are scanned up to scanDepth; everything else is taken as a
// location in the given order. With remote set nothing is checked on disk.
func CollectEntries(args []string, scanDepth int, remote bool) ([]FileEntry, error) {
	var entries []FileEntry
	for _, arg := range args {
		if !remote {
			if info, err := os.Stat(arg); err == nil && info.IsDir() {
				found, err := ScanDir(arg, scanDepth)
				if err != nil {
					return nil, err
				}
				entries = append(entries, found...)
				continue
			}
		}
		entries = append(entries, FileEntry{Kind: KindFromPath(arg), Location: arg})
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return entries, nil
}

// NewFetcher returns an HTTP fetcher when the loader has a base URL and a
// local file fetcher otherwise
func NewFetcher(cfg config.LoaderConfig) Fetcher {
	if cfg.BaseURL != "" {
		return HTTPFetcher{BaseURL: cfg.BaseURL, Client: http.DefaultClient}
	}
	return FileFetcher{}
}

// Open builds a viewer for the arguments using the configuration. Auto
// reload is enabled when configured; a failure to watch is logged and not
// fatal.
func Open(cfg *config.Config, args []string, renderer Renderer, opts ...Option) (*Viewer, error) {
	remote := cfg.Loader.BaseURL != ""
	entries, err := CollectEntries(args, cfg.Loader.ScanDepth, remote)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithLogger(logger.Log),
		WithLimits(cfg.Limits()),
		WithStrict(cfg.Loader.Strict),
	}
	v := New(entries, NewFetcher(cfg.Loader), renderer, append(base, opts...)...)

	if cfg.Watch.Enabled && !remote {
		if err := v.EnableAutoReload(cfg.Watch.Debounce); err != nil {
			logger.Warn("auto reload disabled", zap.Error(err))
		}
	}
	return v, nil
}
