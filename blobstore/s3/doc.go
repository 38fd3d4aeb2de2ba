// Package s3 provides an Amazon S3 implementation of the
// blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := s3blob.NewStore(s3.NewFromConfig(cfg), "my-bucket", "datasets/")
//	client, err := repo.New(store)
//
// # Features
//
//   - Range reads for partial fetches (dataset footer and directory)
//   - Multipart streaming uploads for large datasets
//   - Automatic pagination for listing
//   - Configurable key prefix for multi-tenant buckets
package s3
