package service

import (
	"regexp"
	"strings"
	"unicode"

	"ai-workflow-be/internal/entity"
)

var (
	optionLabel = regexp.MustCompile(`^[a-z][\).:]\s+`)
	spaces      = regexp.MustCompile(`\s+`)
)

func normalizeAnswer(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = spaces.ReplaceAllString(s, " ")
	s = optionLabel.ReplaceAllString(s, "")
	return strings.TrimRight(s, ".!")
}

// optionAt resolves a single option letter ("b") to the option text.
func optionAt(letter string, options []string) (string, bool) {
	if len(letter) != 1 || letter[0] < 'a' || letter[0] > 'z' {
		return "", false
	}
	i := int(letter[0] - 'a')
	if i >= len(options) {
		return "", false
	}
	return normalizeAnswer(options[i]), true
}

// negations turn a containing answer into a wrong one ("not paris").
var negations = map[string]bool{
	"not": true, "no": true, "never": true, "isn't": true, "isnt": true,
	"bukan": true, "tidak": true,
}

func answerTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// matchesShortAnswer reports whether the expected tokens appear as a
// contiguous run in the user's tokens, with no negation among them.
func matchesShortAnswer(user, expected string) bool {
	u, e := answerTokens(user), answerTokens(expected)
	if len(e) == 0 || len(u) < len(e) {
		return false
	}
	for _, tok := range u {
		if negations[tok] {
			return false
		}
	}
	for i := 0; i+len(e) <= len(u); i++ {
		run := true
		for j := range e {
			if u[i+j] != e[j] {
				run = false
				break
			}
		}
		if run {
			return true
		}
	}
	return false
}

func parseTruth(s string) (bool, bool) {
	switch s {
	case "true", "t", "yes", "y", "1", "benar":
		return true, true
	case "false", "f", "no", "n", "0", "salah":
		return false, true
	}
	return false, false
}

// GradeAnswer checks a user answer against the question's correct answer.
func GradeAnswer(q entity.Question, userAnswer string) bool {
	user := normalizeAnswer(userAnswer)
	expected := normalizeAnswer(string(q.CorrectAnswer))
	if user == "" || expected == "" {
		return false
	}

	switch q.Type {
	case entity.QuestionTypeTrueFalse:
		u, okU := parseTruth(user)
		e, okE := parseTruth(expected)
		if okU && okE {
			return u == e
		}
		return user == expected

	case entity.QuestionTypeShortAnswer:
		return user == expected || matchesShortAnswer(user, expected)

	default:
		if user == expected {
			return true
		}
		if opt, ok := optionAt(user, q.Options); ok && opt == expected {
			return true
		}
		if opt, ok := optionAt(expected, q.Options); ok && opt == user {
			return true
		}
		return false
	}
}
