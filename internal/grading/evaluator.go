package grading

import "strings"

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Evaluate compares a typed or placed answer to the correct answer using
// case-insensitive equality after trimming. There is no partial credit.
func Evaluate(userAnswer, correctAnswer string) Status {
	user := normalize(userAnswer)
	if user == "" {
		return StatusUnanswered
	}
	if user == normalize(correctAnswer) {
		return StatusCorrect
	}
	return StatusIncorrect
}

// EvaluateAny accepts any of several phrasings. With a single acceptable
// answer it behaves exactly like Evaluate.
func EvaluateAny(userAnswer string, acceptable []string) Status {
	if normalize(userAnswer) == "" {
		return StatusUnanswered
	}
	for _, correct := range acceptable {
		if Evaluate(userAnswer, correct) == StatusCorrect {
			return StatusCorrect
		}
	}
	return StatusIncorrect
}

// EvaluateAnswer grades a stored value against its question. List answers
// are correct when the non-empty selections match the acceptable set
// regardless of order.
func EvaluateAnswer(value AnswerValue, q Question) Status {
	if !value.Multi {
		return EvaluateAny(value.Text, q.CorrectAnswers)
	}

	selected := make(map[string]struct{}, len(value.List))
	for _, item := range value.List {
		if n := normalize(item); n != "" {
			selected[n] = struct{}{}
		}
	}
	if len(selected) == 0 {
		return StatusUnanswered
	}

	expected := make(map[string]struct{}, len(q.CorrectAnswers))
	for _, c := range q.CorrectAnswers {
		if n := normalize(c); n != "" {
			expected[n] = struct{}{}
		}
	}
	if len(selected) != len(expected) {
		return StatusIncorrect
	}
	for s := range selected {
		if _, ok := expected[s]; !ok {
			return StatusIncorrect
		}
	}
	return StatusCorrect
}

// OverWordLimit reports answers longer than the question allows. It is
// informational and never changes the graded status.
func OverWordLimit(value AnswerValue, q Question) bool {
	if q.WordLimit <= 0 || value.Multi {
		return false
	}
	return len(strings.Fields(value.Text)) > q.WordLimit
}
