// Package services defines the shared error taxonomy and context plumbing
// used by the scraping, resolution, and ingestion components.
//
// Sentinel errors classify failures so callers can decide between degrading
// gracefully (metadata provider outages) and surfacing the problem
// (configuration mistakes, storage failures). Context helpers carry the
// scrape run and cinema identifiers so log lines from concurrent workers
// stay attributable.
package services
