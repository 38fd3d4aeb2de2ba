// Package minio provides a BlobStore implementation using the MinIO
// client.
//
// MinIO is an S3-compatible object storage system. This package uses the
// official MinIO Go client, which also works against other S3-compatible
// systems such as Ceph, SeaweedFS, and Garage, without any AWS
// dependencies.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "datasets/")
//	rc, err := repo.New(store)
package minio
