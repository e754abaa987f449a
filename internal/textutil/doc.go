// Package textutil provides text processing utilities for title
// normalization and similarity scoring.
//
// The primary use cases are:
//   - Normalizing raw cinema listing titles into a canonical matching form
//   - Creating token-based fingerprints from titles for comparison
//   - Computing cosine similarity between fingerprints
//
// Normalization strips the noise cinemas decorate titles with (trailing
// years, event prefixes, format tags, edition suffixes) and is idempotent.
// Fingerprints use term frequency vectors so similarity is insensitive to
// case, punctuation, and word order.
package textutil
