package prompt

import (
	"fmt"
	"strings"
)

// QuizQuestions asks for a batch of count questions.
func QuizQuestions(difficulty, category string, count int) string {
	var prompt strings.Builder

	writeSection(&prompt, "task", fmt.Sprintf(
		"You are a quiz author. Write %d %s quiz questions about %s.",
		count, difficulty, category,
	))
	writeSection(&prompt, "guidelines", `
- Mix the question types multipleChoice, trueFalse and shortAnswer
- multipleChoice questions have four options; correctAnswer is the full text of the correct option
- trueFalse questions have correctAnswer "true" or "false"
- shortAnswer questions have a correctAnswer of a few words
- Every question has a one or two sentence explanation of the correct answer
- Do not repeat questions`)

	writeJSONOnly(&prompt, `[{"type": "multipleChoice|trueFalse|shortAnswer", "question": "<text>", "options": ["<option>"], "correctAnswer": "<answer>", "explanation": "<why>"}]`)
	return prompt.String()
}
