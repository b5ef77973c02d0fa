package llm

import (
	"fmt"
	"strings"
)

// SystemPrompt instructs the model to answer only from the supplied
// manual excerpts.
const SystemPrompt = `You are a product support assistant. Answer the user's question using only the excerpts from the product manuals provided as context. Quote exact values (wattages, error codes, model numbers) as they appear in the manuals. If the context does not contain the answer, say that the manuals do not cover it. Do not invent information.`

// BuildPrompt stuffs every retrieved chunk into a single user prompt
// ahead of the question.
func BuildPrompt(question string, contexts []string) string {
	var sb strings.Builder

	if len(contexts) == 0 {
		sb.WriteString("No manual excerpts were found for this question.\n\n")
	} else {
		sb.WriteString("Manual excerpts:\n\n")
		for i, c := range contexts {
			fmt.Fprintf(&sb, "[%d] %s\n\n", i+1, strings.TrimSpace(c))
		}
	}

	sb.WriteString("Question: ")
	sb.WriteString(strings.TrimSpace(question))
	return sb.String()
}
