// Package blobstore provides the object storage used for namespace snapshots.
//
// Store is the interface for writing and reading whole objects.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests
//   - LocalStore: local filesystem, atomic writes via rename
//   - minio.Store: MinIO and S3-compatible servers
//   - s3.Store: Amazon S3, multipart uploads through the S3 transfer manager
package blobstore
