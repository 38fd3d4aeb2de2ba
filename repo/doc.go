// Package repo implements a dataset repository client: it resolves public
// accession numbers to dataset blobs in a blobstore, fetches and decodes
// them, and re-validates every container invariant before handing the
// result to the caller.
//
// A repository is a BlobStore holding dataset files plus a Catalog mapping
// accessions to blob entries. The default catalog is a JSON manifest blob
// stored alongside the datasets; StaticCatalog serves fixed mappings and
// the ddb subpackage keeps the catalog in DynamoDB with atomic version
// publishing for concurrent writers.
//
// Fetches are rate limited by default so a shared public repository is not
// hammered by concurrent batch retrievals.
//
// Basic usage:
//
//	store, err := blobstore.NewLocalStore("/data/repo")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client := repo.New(store)
//
//	set, err := client.Fetch(ctx, "GSE1045")
//	if err != nil {
//	    log.Fatal(err)
//	}
package repo
