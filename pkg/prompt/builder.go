// Package prompt composes the model prompts for every workflow. Prompts are
// sectioned with XML-like tags so the model can tell instructions, context
// and required output format apart.
package prompt

import (
	"fmt"
	"strings"
)

func writeSection(prompt *strings.Builder, tag, body string) {
	prompt.WriteString("<" + tag + ">\n")
	prompt.WriteString(strings.TrimSpace(body))
	prompt.WriteString("\n</" + tag + ">\n\n")
}

func writeList(prompt *strings.Builder, tag string, items []string) {
	prompt.WriteString("<" + tag + ">\n")
	if len(items) == 0 {
		prompt.WriteString("(none)\n")
	}
	for i, item := range items {
		fmt.Fprintf(prompt, "%d. %s\n", i+1, item)
	}
	prompt.WriteString("</" + tag + ">\n\n")
}

func writeJSONOnly(prompt *strings.Builder, format string) {
	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with JSON only, no markdown and no commentary, exactly in this format:\n")
	prompt.WriteString(strings.TrimSpace(format))
	prompt.WriteString("\n</output_format>")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
