// Package chat orchestrates retrieval-augmented answers for the widget:
// nearest documentation chunks in, one completion out, with optional
// conversation persistence.
package chat
