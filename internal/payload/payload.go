package payload

import (
	"fmt"
	"strings"
)

// Body returns the input text: the prompt alone, or prompt and selection
// under fixed headings when a selection is given.
func Body(prompt, selection string) string {
	if selection == "" {
		return prompt
	}
	var b strings.Builder
	b.WriteString("User prompt:\n")
	b.WriteString(prompt)
	b.WriteString("\n\nSelection:\n")
	b.WriteString(selection)
	return b.String()
}

// Build renders the request payload. Field order and the three-decimal
// temperature are fixed by the wire format.
func Build(model string, temperature float64, prompt, selection string) string {
	return fmt.Sprintf(`{"model":"%s","input":"%s","temperature":%.3f}`,
		Escape(model), Escape(Body(prompt, selection)), temperature)
}
