// Package main hosts the CineScout CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the whole operational surface: scrape
// runs, the listings API server, catalogue inspection (films, showings,
// cinemas), one-off title resolution, and configuration scaffolding. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
