package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("What is the maximum wattage?", []string{
		"The Model Z speaker outputs up to 60W.",
		"Error code E3 indicates a low-power condition.",
	})

	assert.Contains(t, prompt, "Manual excerpts:")
	assert.Contains(t, prompt, "[1] The Model Z speaker outputs up to 60W.")
	assert.Contains(t, prompt, "[2] Error code E3 indicates a low-power condition.")
	assert.True(t, strings.HasSuffix(prompt, "Question: What is the maximum wattage?"))
}

func TestBuildPromptNoContext(t *testing.T) {
	prompt := BuildPrompt("Anything?", nil)

	assert.Contains(t, prompt, "No manual excerpts were found")
	assert.Contains(t, prompt, "Question: Anything?")
	assert.NotContains(t, prompt, "Manual excerpts:")
}

func TestBuildPromptTrimsInput(t *testing.T) {
	prompt := BuildPrompt("  spaced question  ", []string{"  padded chunk  "})

	assert.Contains(t, prompt, "[1] padded chunk")
	assert.True(t, strings.HasSuffix(prompt, "Question: spaced question"))
}
