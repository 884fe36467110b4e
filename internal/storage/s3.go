package storage

import (
	"fmt"
	"io/fs"
	"mime"
	"path"
	"sort"
	"strings"
)

// S3ClientInterface defines the interface for S3 operations.
type S3ClientInterface interface {
	GetObject(key string) ([]byte, error)
	ListObjects(prefix string) ([]string, error)
}

// AssetStore serves decoration images from S3, falling back to an embedded
// directory when S3 is not configured or the object is missing.
type AssetStore struct {
	client   S3ClientInterface
	prefix   string
	fallback fs.FS
}

// NewAssetStore creates an AssetStore. client may be nil.
func NewAssetStore(client S3ClientInterface, prefix string, fallback fs.FS) *AssetStore {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &AssetStore{
		client:   client,
		prefix:   prefix,
		fallback: fallback,
	}
}

// Get returns the asset bytes and content type.
func (a *AssetStore) Get(name string) ([]byte, string, error) {
	name, ok := cleanAssetName(name)
	if !ok {
		return nil, "", ErrNotFound
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if a.client != nil {
		if data, err := a.client.GetObject(a.prefix + name); err == nil {
			return data, contentType, nil
		}
	}

	if a.fallback == nil {
		return nil, "", ErrNotFound
	}

	data, err := fs.ReadFile(a.fallback, name)
	if err != nil {
		return nil, "", fmt.Errorf("asset %q: %w", name, ErrNotFound)
	}
	return data, contentType, nil
}

// List returns the asset names available from S3 and the fallback.
func (a *AssetStore) List() ([]string, error) {
	seen := make(map[string]bool)

	if a.client != nil {
		keys, err := a.client.ListObjects(a.prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list assets: %w", err)
		}
		for _, key := range keys {
			seen[strings.TrimPrefix(key, a.prefix)] = true
		}
	}

	if a.fallback != nil {
		entries, err := fs.ReadDir(a.fallback, ".")
		if err != nil {
			return nil, fmt.Errorf("failed to list embedded assets: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				seen[e.Name()] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// cleanAssetName rejects paths that could escape the asset directory.
func cleanAssetName(name string) (string, bool) {
	name = strings.TrimPrefix(name, "/")
	if name == "" || strings.Contains(name, "..") || strings.ContainsRune(name, '\\') {
		return "", false
	}
	return path.Clean(name), true
}
