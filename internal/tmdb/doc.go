// Package tmdb is a thin client for The Movie Database API, the external
// metadata provider backing film resolution.
//
// The provider is an untrusted, rate-limited network collaborator: every
// call has a bounded timeout and failures are tagged with
// services.ErrMetadataUnavailable so the resolver can degrade to placeholder
// creation instead of aborting a showing.
package tmdb
