package prompt

import (
	"fmt"
	"sort"
	"strings"

	"ai-workflow-be/internal/entity"
)

// ProcessOptimization asks for parameter recommendations for a production
// process. Steps and parameters are listed in sorted order so identical input
// yields an identical prompt.
func ProcessOptimization(steps entity.ProcessSteps) string {
	var prompt strings.Builder

	writeSection(&prompt, "task", "You are a process engineer optimising a production process for quality, safety and efficiency.")

	prompt.WriteString("<process_steps>\n")
	names := make([]string, 0, len(steps))
	for name := range steps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&prompt, "Step: %s\n", name)
		params := steps[name]
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&prompt, "  - %s: %g\n", k, params[k])
		}
	}
	prompt.WriteString("</process_steps>\n\n")

	writeSection(&prompt, "guidelines", `
- Recommend a value for every parameter that should change and explain why
- Only reference the steps and parameters listed above
- Summarise the overall expected improvement`)

	writeJSONOnly(&prompt, `{"optimizations": [{"step": "<step>", "parameter": "<parameter>", "currentValue": 0, "recommendedValue": 0, "suggestion": "<why>", "expectedImpact": "<impact>"}], "summary": "<overall summary>"}`)
	return prompt.String()
}
