// Package server exposes the documentation assistant over HTTP: tenant
// onboarding jobs, direct URL and PDF ingestion, RAG chat, conversation
// transcripts, and answer feedback. All request and response bodies are
// JSON except the PDF upload, which is multipart.
package server
