// Package extract turns raw page and PDF byte streams into plain text and
// splits text into overlapping chunks for embedding.
//
// All functions are pure: nothing here fetches or persists. Fetching belongs
// to the crawl package, persistence to the storage layer.
package extract
