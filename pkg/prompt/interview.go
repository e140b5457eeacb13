package prompt

import (
	"fmt"
	"strings"

	"ai-workflow-be/internal/entity"
)

// InterviewQuestion asks for question number index+1 of the interview.
func InterviewQuestion(cfg entity.InterviewConfig, index int, previous []entity.InterviewTurn) string {
	var prompt strings.Builder

	writeSection(&prompt, "task", fmt.Sprintf(
		"You are an experienced interviewer conducting a %s %s interview for a %s position.\n"+
			"Ask question %d of %d.",
		cfg.Difficulty, cfg.InterviewType, cfg.JobRole, index+1, cfg.NumQuestions,
	))

	questions := make([]string, 0, len(previous))
	for _, turn := range previous {
		questions = append(questions, turn.Question)
	}
	writeList(&prompt, "previous_questions", questions)

	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("- Do not repeat any previous question or assess a skill area a previous question already covered\n")
	fmt.Fprintf(&prompt, "- Match the %s difficulty level\n", cfg.Difficulty)
	fmt.Fprintf(&prompt, "- Keep it relevant to a %s interview for a %s\n", cfg.InterviewType, cfg.JobRole)
	prompt.WriteString("- Ask exactly one question\n")
	prompt.WriteString("</guidelines>\n\n")

	writeJSONOnly(&prompt, `{"question": "<the interview question>"}`)
	return prompt.String()
}

// InterviewFeedback evaluates the answer to the latest question.
func InterviewFeedback(cfg entity.InterviewConfig, question, answer string) string {
	var prompt strings.Builder

	writeSection(&prompt, "task", fmt.Sprintf(
		"You are an experienced interviewer evaluating a candidate's answer in a %s %s interview for a %s position.",
		cfg.Difficulty, cfg.InterviewType, cfg.JobRole,
	))
	writeSection(&prompt, "question", question)
	writeSection(&prompt, "candidate_answer", answer)
	writeSection(&prompt, "guidelines", `
Give constructive feedback in these sections:
- Strengths: what the answer did well
- Areas for Improvement: what was missing or unclear
- Suggested Answer: a concise model answer
- Rating: a score out of 10 with one sentence of justification`)

	writeJSONOnly(&prompt, `[{"section": "<section title>", "content": "<feedback>"}]`)
	return prompt.String()
}

// InterviewSummary reviews the whole interview.
func InterviewSummary(cfg entity.InterviewConfig, turns []entity.InterviewTurn) string {
	var prompt strings.Builder

	writeSection(&prompt, "task", fmt.Sprintf(
		"You are an experienced interviewer writing the final assessment of a %s %s interview for a %s position.",
		cfg.Difficulty, cfg.InterviewType, cfg.JobRole,
	))

	prompt.WriteString("<transcript>\n")
	if len(turns) == 0 {
		prompt.WriteString("(no questions were asked)\n")
	}
	for i, turn := range turns {
		fmt.Fprintf(&prompt, "Q%d: %s\n", i+1, turn.Question)
		fmt.Fprintf(&prompt, "A%d: %s\n", i+1, orDefault(turn.Answer, "(not answered)"))
	}
	prompt.WriteString("</transcript>\n\n")

	writeSection(&prompt, "guidelines", `
Summarise the candidate's performance in these sections:
- Overall Performance
- Key Strengths
- Areas for Improvement
- Recommendation: whether to move the candidate forward and why`)

	writeJSONOnly(&prompt, `[{"section": "<section title>", "content": "<assessment>"}]`)
	return prompt.String()
}
