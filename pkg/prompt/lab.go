package prompt

import (
	"fmt"
	"strings"

	"ai-workflow-be/internal/entity"
)

func writeExperiment(prompt *strings.Builder, cfg entity.LabConfig) {
	writeSection(prompt, "experiment", fmt.Sprintf("%s (%s level)", cfg.ExperimentName, orDefault(cfg.Level, "beginner")))
}

// LabIntroduction starts an experiment.
func LabIntroduction(cfg entity.LabConfig) string {
	var prompt strings.Builder

	writeSection(&prompt, "task", "You are a laboratory instructor guiding a student through a virtual experiment. Introduce the experiment.")
	writeExperiment(&prompt, cfg)
	writeSection(&prompt, "guidelines", fmt.Sprintf(`
- Explain the objective and the scientific background briefly
- Give a procedure of at most %d numbered steps
- List the safety precautions
- List the equipment needed`, cfg.MaxSteps))

	writeJSONOnly(&prompt, `{"title": "<title>", "objective": "<objective>", "background": "<background>", "procedure": ["<step>"], "safety": ["<precaution>"], "equipment": ["<item>"]}`)
	return prompt.String()
}

// LabEquipment checks the equipment the student selected.
func LabEquipment(cfg entity.LabConfig, intro entity.ExperimentIntroduction, selected []string) string {
	var prompt strings.Builder

	writeSection(&prompt, "task", "You are a laboratory instructor. Check whether the equipment the student selected is suitable for the experiment.")
	writeExperiment(&prompt, cfg)
	writeList(&prompt, "procedure", intro.Procedure)
	writeList(&prompt, "selected_equipment", selected)

	writeJSONOnly(&prompt, `{"suitable": true, "analysis": "<analysis>", "missing": ["<item>"], "recommendations": ["<recommendation>"]}`)
	return prompt.String()
}

// LabStep gives the instructions for step number (1-based).
func LabStep(cfg entity.LabConfig, intro entity.ExperimentIntroduction, number, total int, previous []entity.LabStep) string {
	var prompt strings.Builder

	writeSection(&prompt, "task", fmt.Sprintf("You are a laboratory instructor. Give detailed instructions for step %d of %d.", number, total))
	writeExperiment(&prompt, cfg)
	writeList(&prompt, "procedure", intro.Procedure)

	done := make([]string, 0, len(previous))
	for _, step := range previous {
		done = append(done, step.Instructions)
	}
	writeList(&prompt, "completed_steps", done)

	writeSection(&prompt, "guidelines", `
- Describe what to do, what to observe and which safety precautions apply
- Keep it to one short paragraph`)

	prompt.WriteString("Respond with the instructions as plain text.")
	return prompt.String()
}

// LabAction evaluates an action the student performed on the current step.
func LabAction(cfg entity.LabConfig, step entity.LabStep, action string) string {
	var prompt strings.Builder

	writeSection(&prompt, "task", "You are a laboratory simulator. Describe what happens when the student performs the action below and judge whether it was correct.")
	writeExperiment(&prompt, cfg)
	writeSection(&prompt, "current_step", fmt.Sprintf("Step %d: %s", step.Number, step.Instructions))
	writeSection(&prompt, "student_action", action)

	writeJSONOnly(&prompt, `{"outcome": "<what happened>", "observations": "<what the student observes>", "correct": true, "feedback": "<guidance>"}`)
	return prompt.String()
}

// LabQuestion answers a free-form student question.
func LabQuestion(cfg entity.LabConfig, current *entity.LabStep, question string) string {
	var prompt strings.Builder

	writeSection(&prompt, "task", "You are a laboratory instructor answering a student's question during an experiment.")
	writeExperiment(&prompt, cfg)
	if current != nil {
		writeSection(&prompt, "current_step", fmt.Sprintf("Step %d: %s", current.Number, current.Instructions))
	}
	writeSection(&prompt, "student_question", question)

	prompt.WriteString("Answer clearly and concisely as plain text.")
	return prompt.String()
}

// LabCompletion summarises and scores the experiment.
func LabCompletion(cfg entity.LabConfig, intro entity.ExperimentIntroduction, steps []entity.LabStep) string {
	var prompt strings.Builder

	writeSection(&prompt, "task", "You are a laboratory instructor. The student finished the experiment; summarise it and score their performance from 0 to 100.")
	writeExperiment(&prompt, cfg)
	writeSection(&prompt, "objective", intro.Objective)

	prompt.WriteString("<performed_steps>\n")
	if len(steps) == 0 {
		prompt.WriteString("(no steps were performed)\n")
	}
	for _, step := range steps {
		fmt.Fprintf(&prompt, "Step %d: %s\n", step.Number, step.Instructions)
		for _, a := range step.Actions {
			verdict := "incorrect"
			if a.Correct {
				verdict = "correct"
			}
			fmt.Fprintf(&prompt, "  - action: %s (%s) -> %s\n", a.Action, verdict, a.Outcome)
		}
	}
	prompt.WriteString("</performed_steps>\n\n")

	writeJSONOnly(&prompt, `{"summary": "<summary>", "conclusions": ["<conclusion>"], "score": 0}`)
	return prompt.String()
}
