package repo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/exprset/blobstore"
	"github.com/hupe1980/exprset/codec"
)

// ManifestName is the blob name of the JSON manifest a ManifestCatalog
// maintains inside its store.
const ManifestName = "MANIFEST"

// Entry describes one published dataset.
type Entry struct {
	// Accession is the public identifier clients fetch by.
	Accession string `json:"accession"`
	// Key is the blob name of the dataset file within the store.
	Key string `json:"key"`
	// Version counts publishes of this accession, starting at 1.
	Version uint64 `json:"version"`
	// Checksum is the CRC32 (IEEE) of the dataset blob; 0 means unknown
	// and skips verification on fetch.
	Checksum uint32 `json:"checksum,omitempty"`
}

// Catalog resolves accessions to dataset blob entries.
type Catalog interface {
	// Resolve returns the current entry for an accession. Returns
	// *ErrUnknownAccession if the catalog has no entry.
	Resolve(ctx context.Context, accession string) (Entry, error)
	// Entries returns all current entries, sorted by accession.
	Entries(ctx context.Context) ([]Entry, error)
}

// WritableCatalog is a Catalog that also accepts new entries.
type WritableCatalog interface {
	Catalog
	// Publish records an entry as the current version of its accession.
	Publish(ctx context.Context, e Entry) error
}

// StaticCatalog serves a fixed accession -> entry mapping. Useful for
// tests and for repositories whose contents are known at build time.
type StaticCatalog struct {
	entries map[string]Entry
}

// NewStaticCatalog creates a catalog over a fixed set of entries.
func NewStaticCatalog(entries ...Entry) *StaticCatalog {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Accession] = e
	}
	return &StaticCatalog{entries: m}
}

// Resolve implements Catalog.
func (c *StaticCatalog) Resolve(_ context.Context, accession string) (Entry, error) {
	e, ok := c.entries[accession]
	if !ok {
		return Entry{}, &ErrUnknownAccession{Accession: accession}
	}
	return e, nil
}

// Entries implements Catalog.
func (c *StaticCatalog) Entries(_ context.Context) ([]Entry, error) {
	entries := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Accession < entries[j].Accession })
	return entries, nil
}

// manifest is the persisted shape of a ManifestCatalog.
type manifest struct {
	Version uint32           `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// ManifestCatalog keeps the accession mapping in a JSON manifest blob
// stored next to the datasets. Reads are cached with a TTL so batch
// fetches do not re-download the manifest per accession.
//
// Publish rewrites the whole manifest; it is safe for a single writer.
// Concurrent publishers need the ddb catalog instead.
type ManifestCatalog struct {
	store blobstore.BlobStore
	codec codec.Codec
	ttl   time.Duration

	mu        sync.Mutex
	cached    *manifest
	fetchedAt time.Time
}

// ManifestCatalogOptions configures a ManifestCatalog.
type ManifestCatalogOptions struct {
	// Codec encodes the manifest blob.
	Codec codec.Codec
	// TTL bounds how long a cached manifest is trusted.
	TTL time.Duration
}

// DefaultManifestCatalogOptions are the defaults for NewManifestCatalog.
var DefaultManifestCatalogOptions = ManifestCatalogOptions{
	Codec: codec.Default,
	TTL:   time.Minute,
}

// NewManifestCatalog creates a manifest-backed catalog over store.
func NewManifestCatalog(store blobstore.BlobStore, optFns ...func(o *ManifestCatalogOptions)) *ManifestCatalog {
	opts := DefaultManifestCatalogOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	return &ManifestCatalog{
		store: store,
		codec: opts.Codec,
		ttl:   opts.TTL,
	}
}

// Resolve implements Catalog.
func (c *ManifestCatalog) Resolve(ctx context.Context, accession string) (Entry, error) {
	m, err := c.load(ctx)
	if err != nil {
		return Entry{}, err
	}

	e, ok := m.Entries[accession]
	if !ok {
		return Entry{}, &ErrUnknownAccession{Accession: accession}
	}
	return e, nil
}

// Entries implements Catalog.
func (c *ManifestCatalog) Entries(ctx context.Context) ([]Entry, error) {
	m, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(m.Entries))
	for _, e := range m.Entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Accession < entries[j].Accession })
	return entries, nil
}

// Publish implements WritableCatalog.
func (c *ManifestCatalog) Publish(ctx context.Context, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	if prev, ok := m.Entries[e.Accession]; ok && e.Version == 0 {
		e.Version = prev.Version + 1
	} else if e.Version == 0 {
		e.Version = 1
	}
	m.Entries[e.Accession] = e

	data, err := c.codec.Marshal(m)
	if err != nil {
		return err
	}

	if err := c.store.Put(ctx, ManifestName, data); err != nil {
		return err
	}

	c.cached = m
	c.fetchedAt = time.Now()
	return nil
}

// Invalidate drops the cached manifest so the next read refetches it.
func (c *ManifestCatalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
}

func (c *ManifestCatalog) load(ctx context.Context) (*manifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.cached, nil
	}

	m, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.cached = m
	c.fetchedAt = time.Now()
	return m, nil
}

// fetch reads the manifest blob. An absent manifest is an empty catalog,
// so the first Publish against a fresh store works.
func (c *ManifestCatalog) fetch(ctx context.Context) (*manifest, error) {
	data, err := blobstore.ReadAll(ctx, c.store, ManifestName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return &manifest{Version: 1, Entries: make(map[string]Entry)}, nil
		}
		return nil, err
	}

	var m manifest
	if err := c.codec.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Entries == nil {
		m.Entries = make(map[string]Entry)
	}

	return &m, nil
}
