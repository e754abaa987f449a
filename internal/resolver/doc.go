// Package resolver maps raw cinema listing titles onto canonical film
// records.
//
// Resolution walks an ordered ladder: exact alias lookup (cheapest, most
// precise), fuzzy matching against the existing catalogue (cheap, tolerant
// of minor variation), external metadata search (expensive, authoritative),
// and finally placeholder creation (always succeeds, lowest confidence).
// Each step that finds a film records an alias so the expensive steps are
// never repeated for the same raw string, from any cinema.
//
// Every failure mode degrades to the next weaker form of evidence instead
// of surfacing an error: a metadata provider outage yields a placeholder
// film, never a dropped showing.
package resolver
