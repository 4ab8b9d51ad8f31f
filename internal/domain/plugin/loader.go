package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const (
	// maxManifestSize limits manifest file size to prevent memory exhaustion (256KB).
	maxManifestSize int64 = 256 * 1024

	// maxEntrySize limits plugin entry source size (1MB).
	maxEntrySize int64 = 1024 * 1024
)

// Loader discovers and loads plugins from the filesystem. Each plugin is a
// subdirectory containing plugin.json and the entry file it names.
type Loader struct {
	// SearchPaths are directories to search for plugins.
	SearchPaths []string
}

// NewLoader creates a new plugin loader with default search paths.
func NewLoader() *Loader {
	paths := []string{"/usr/local/share/glint/plugins"}

	home, err := os.UserHomeDir()
	if err == nil {
		// Prepend user path (higher priority than system path)
		paths = append([]string{filepath.Join(home, ".glint", "plugins")}, paths...)
	}

	return &Loader{SearchPaths: paths}
}

// WithSearchPaths sets custom search paths.
func (l *Loader) WithSearchPaths(paths ...string) *Loader {
	l.SearchPaths = paths
	return l
}

// Discover finds all plugins in the search paths. Individual load failures
// are collected per plugin; one broken plugin never blocks the rest.
func (l *Loader) Discover(ctx context.Context) (*DiscoveryResult, error) {
	result := &DiscoveryResult{
		Plugins: make([]*Plugin, 0),
		Errors:  make([]DiscoveryError, 0),
	}

	for _, searchPath := range l.SearchPaths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		plugins, errs := l.discoverInPath(ctx, searchPath)
		result.Plugins = append(result.Plugins, plugins...)
		result.Errors = append(result.Errors, errs...)
	}

	return result, nil
}

// discoverInPath finds plugins in a single directory.
func (l *Loader) discoverInPath(ctx context.Context, searchPath string) ([]*Plugin, []DiscoveryError) {
	entries, err := os.ReadDir(searchPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Path doesn't exist, not an error
		}
		return nil, []DiscoveryError{{Path: searchPath, Err: err}}
	}

	plugins := make([]*Plugin, 0, len(entries))
	errs := make([]DiscoveryError, 0)

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return plugins, errs
		default:
		}

		if !entry.IsDir() {
			continue
		}

		pluginPath := filepath.Join(searchPath, entry.Name())
		p, err := l.LoadFromPath(pluginPath)
		if err != nil {
			errs = append(errs, DiscoveryError{Path: pluginPath, Err: err})
			continue
		}
		plugins = append(plugins, p)
	}

	return plugins, errs
}

// LoadFromPath loads and validates a plugin from a directory.
func (l *Loader) LoadFromPath(path string) (*Plugin, error) {
	manifest, err := readManifest(filepath.Join(path, ManifestFileName))
	if err != nil {
		return nil, err
	}

	if err := Validate(manifest); err != nil {
		return nil, err
	}

	source, err := readEntry(path, manifest.Entry)
	if err != nil {
		return nil, err
	}

	return &Plugin{
		Manifest: *manifest,
		Path:     path,
		Source:   source,
		Status:   StatusLoaded,
		LoadedAt: time.Now(),
	}, nil
}

// readManifest reads and decodes plugin.json with a size limit.
func readManifest(manifestPath string) (*Manifest, error) {
	info, err := os.Stat(manifestPath)
	if os.IsNotExist(err) {
		return nil, ErrManifestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", ManifestFileName, err)
	}
	if info.Size() > maxManifestSize {
		return nil, &ManifestSizeError{Path: manifestPath, Size: info.Size(), Limit: maxManifestSize}
	}

	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", ManifestFileName, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxManifestSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ManifestFileName, err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFileName, err)
	}
	return &manifest, nil
}

// readEntry reads the plugin's entry source, rejecting paths that resolve
// outside the plugin directory even after symlink-free cleaning.
func readEntry(pluginPath, entry string) (string, error) {
	full := filepath.Join(pluginPath, filepath.FromSlash(entry))
	rel, err := filepath.Rel(pluginPath, full)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return "", &EntryPathError{Entry: entry, Reason: "resolves outside the plugin directory"}
	}

	info, err := os.Stat(full)
	if err != nil {
		return "", fmt.Errorf("checking entry %s: %w", entry, err)
	}
	if info.Size() > maxEntrySize {
		return "", &ManifestSizeError{Path: full, Size: info.Size(), Limit: maxEntrySize}
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("reading entry %s: %w", entry, err)
	}
	return string(data), nil
}
