// Package registry coordinates point creation, filtered listing and detail lookup across the item catalog,
// the point repository and the image store.
//
// [Registry] is the single entry point used by the HTTP server and the CLI. It resolves stored image keys
// into public URLs on every result, so callers never see a bare key without its URL.
package registry
