// Package reembed regenerates the embeddings of a tenant's stored
// document chunks. Used after switching embedding models or dimensions,
// when the vectors on disk no longer match what the retriever queries
// with.
//
// The package supports batch processing, progress tracking, and retry
// around the embedding provider.
package reembed
