// Package ingestion implements the extract-chunk-embed-store pipeline.
//
// The same Pipeline serves both entry points: single-source ingestion
// through the HTTP API (a page URL or an uploaded PDF) and per-page
// processing inside an onboarding job. Embedding calls carry a bounded
// fixed-delay retry so transient provider rate limits do not fail a
// whole source.
package ingestion
