// Package crawl discovers the pages of a documentation site.
//
// The Discoverer performs a bounded breadth-first traversal starting
// at a root URL, staying on the root's host and skipping asset,
// auth, and API paths. The HTTPFetcher retrieves individual pages
// with a per-request timeout and optional request spacing.
package crawl
