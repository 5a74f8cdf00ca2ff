// Package storage persists uploaded point images and maps stored keys to public URLs.
//
// Key Implementations:
//   - [ImageStore] : Store / Delete / URL capability used by the registry
//   - [DiskStore] : Files under a local directory, served by the HTTP server at /uploads/
//   - [S3Store] : Objects in an S3-compatible bucket with a public-read ACL
//
// Use [New] to build the store selected by [shared.StorageConfig].
package storage
