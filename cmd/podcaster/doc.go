// Package main hosts the podcaster CLI entrypoint and command graph.
//
// The Cobra-based command tree generates podcasts in-process from text,
// files, URLs, or feeds, browses the shared history registry, runs
// preflight checks, and scaffolds configuration. The long-running HTTP
// server lives in cmd/podcasterd.
package main
