// Package retrieval answers "what does this tenant's documentation say"
// at query time: it embeds the question, asks the document store for the
// nearest chunks, and renders them into a bounded context string for the
// completion prompt.
package retrieval
