package chat

import (
	"fmt"
	"strings"
)

// systemPromptHeader sets the assistant's role and ground rules. The
// retrieved passages follow inside an explicit fence so the model can
// tell documentation apart from instructions.
const systemPromptHeader = `You are an AI co-pilot embedded in a pharmacy operations platform.
Answer concisely and only from the documentation passages provided below.
When the documentation does not cover something, say so explicitly instead of guessing.`

// ScreenContext describes where in the product the user currently is.
type ScreenContext struct {
	PageTitle  string `json:"page_title"`
	CurrentURL string `json:"current_url"`
}

func (s ScreenContext) empty() bool {
	return s.PageTitle == "" && s.CurrentURL == ""
}

// buildSystemPrompt assembles the per-request system prompt from the
// formatted retrieval context and the caller's screen context.
func buildSystemPrompt(ragContext string, screen ScreenContext) string {
	var b strings.Builder

	b.WriteString(systemPromptHeader)
	b.WriteString("\n\n")

	if !screen.empty() {
		fmt.Fprintf(&b, "The user is currently on: %s (%s)\n\n", screen.PageTitle, screen.CurrentURL)
	}

	b.WriteString("=== DOCUMENTATION CONTEXT ===\n")
	b.WriteString(ragContext)
	b.WriteString("\n=== END OF CONTEXT ===")

	return b.String()
}
