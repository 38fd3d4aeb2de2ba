// Package cache provides LRU caching for dataset blob blocks.
//
// # Block Cache (RAM)
//
// LRUBlockCache stores recently read blocks keyed by blob name and block
// index. ShardedLRUBlockCache spreads entries across 64 shards so concurrent
// readers of large datasets do not serialize on one mutex.
//
// # Disk Cache (L2)
//
// For remote repository backends, DiskBlockCache keeps fetched blocks on the
// local filesystem so re-opening a dataset does not re-download it:
//   - writes happen in the background off the read path
//   - LRU eviction with a configurable size limit
//   - the index is rebuilt from disk on startup
package cache
