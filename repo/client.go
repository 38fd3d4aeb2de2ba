package repo

import (
	"bytes"
	"context"
	"hash/crc32"
	"time"

	"github.com/hupe1980/exprset"
	"github.com/hupe1980/exprset/blobstore"
	"github.com/hupe1980/exprset/dataset"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options configures a repository client.
type Options struct {
	// Catalog resolves accessions. Defaults to a ManifestCatalog over the
	// client's store.
	Catalog Catalog

	// Limiter throttles remote operations. The default is a polite
	// client: 4 ops/s with a burst of 8. Set nil to disable.
	Limiter *rate.Limiter

	// FetchConcurrency bounds the parallelism of FetchAll.
	FetchConcurrency int

	// Dataset options (codec, compression) applied to decode and publish.
	Dataset []func(o *dataset.Options)

	// Logger traces fetch and publish operations.
	Logger *exprset.Logger

	// Metrics records fetch outcomes.
	Metrics exprset.MetricsCollector
}

// DefaultOptions are the defaults for New.
var DefaultOptions = Options{
	FetchConcurrency: 4,
}

// Client fetches datasets from a repository by accession and publishes new
// ones. All invariants of the annotated container are re-validated on
// every fetch, because dataset decoding funnels through the exprset
// constructor.
type Client struct {
	store       blobstore.BlobStore
	catalog     Catalog
	limiter     *rate.Limiter
	concurrency int
	datasetOpts []func(o *dataset.Options)
	logger      *exprset.Logger
	metrics     exprset.MetricsCollector
}

// New creates a repository client over store.
func New(store blobstore.BlobStore, optFns ...func(o *Options)) *Client {
	opts := DefaultOptions
	opts.Limiter = rate.NewLimiter(rate.Limit(4), 8)

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Catalog == nil {
		opts.Catalog = NewManifestCatalog(store)
	}
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = DefaultOptions.FetchConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = exprset.NoopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = exprset.NoopMetricsCollector{}
	}

	return &Client{
		store:       store,
		catalog:     opts.Catalog,
		limiter:     opts.Limiter,
		concurrency: opts.FetchConcurrency,
		datasetOpts: opts.Dataset,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
	}
}

// Fetch retrieves one dataset by accession.
func (c *Client) Fetch(ctx context.Context, accession string) (*exprset.Set, error) {
	start := time.Now()

	set, err := c.fetch(ctx, accession)

	c.metrics.RecordFetch(time.Since(start), err)
	c.logger.LogFetch(accession, err)

	return set, err
}

func (c *Client) fetch(ctx context.Context, accession string) (*exprset.Set, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	entry, err := c.catalog.Resolve(ctx, accession)
	if err != nil {
		return nil, err
	}

	data, err := blobstore.ReadAll(ctx, c.store, entry.Key)
	if err != nil {
		return nil, err
	}

	if entry.Checksum != 0 {
		if actual := crc32.ChecksumIEEE(data); actual != entry.Checksum {
			return nil, &ErrChecksum{
				Accession: accession,
				Expected:  entry.Checksum,
				Actual:    actual,
			}
		}
	}

	return dataset.Read(bytes.NewReader(data), c.datasetOpts...)
}

// FetchAll retrieves several datasets concurrently. The result slice is in
// request order; the first failure cancels the remaining fetches.
func (c *Client) FetchAll(ctx context.Context, accessions []string) ([]*exprset.Set, error) {
	sets := make([]*exprset.Set, len(accessions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, accession := range accessions {
		g.Go(func() error {
			set, err := c.Fetch(gctx, accession)
			if err != nil {
				return err
			}
			sets[i] = set
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sets, nil
}

// List returns the accessions of every published dataset, sorted.
func (c *Client) List(ctx context.Context) ([]string, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	entries, err := c.catalog.Entries(ctx)
	if err != nil {
		return nil, err
	}

	accessions := make([]string, len(entries))
	for i, e := range entries {
		accessions[i] = e.Accession
	}
	return accessions, nil
}

// Publish encodes the container, stores it under the accession, and
// records it in the catalog. Fails with ErrReadOnlyCatalog when the
// catalog cannot accept entries.
func (c *Client) Publish(ctx context.Context, accession string, set *exprset.Set) error {
	wc, ok := c.catalog.(WritableCatalog)
	if !ok {
		return ErrReadOnlyCatalog
	}

	if err := c.wait(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := dataset.Write(&buf, set, c.datasetOpts...); err != nil {
		return err
	}
	data := buf.Bytes()

	key := accession + ".esd"
	if err := c.store.Put(ctx, key, data); err != nil {
		return err
	}

	return wc.Publish(ctx, Entry{
		Accession: accession,
		Key:       key,
		Checksum:  crc32.ChecksumIEEE(data),
	})
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}
