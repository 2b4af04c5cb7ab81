// Package openai implements text embeddings against OpenAI-compatible APIs.
package openai
