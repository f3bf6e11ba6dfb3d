package structuring

import (
	"strings"

	"github.com/doeshing/tunemate-go/internal/domain"
)

const (
	defaultQuestionTopic  = "General"
	defaultExpectedLength = "Medium"
)

// fallbackQuestions stand in when the model's answer does not decode.
var fallbackQuestions = map[domain.QuestionType][]domain.Question{
	domain.QuestionConversation: {
		{English: "What is your favorite hobby and why do you enjoy it?", Topic: "Hobbies", ExpectedLength: "Medium"},
		{English: "Describe your best friend to me.", Topic: "Relationships", ExpectedLength: "Medium"},
	},
	domain.QuestionDSA: {
		{
			English:        "How would you reverse a string without using built-in functions?",
			Topic:          "Strings",
			ExpectedLength: "Medium",
			Hint:           "Think about swapping characters from both ends",
		},
		{English: "Explain what Big O notation means and give an example.", Topic: "Complexity Analysis", ExpectedLength: "Medium"},
	},
	domain.QuestionTech: {
		{English: "What is the difference between frontend and backend development?", Topic: "Web Development", ExpectedLength: "Medium"},
		{English: "Why is version control (like Git) important in software development?", Topic: "Development Tools", ExpectedLength: "Medium"},
	},
	domain.QuestionAptitude: {
		{
			English:        "If it takes 5 machines 5 minutes to make 5 widgets, how long would it take 100 machines to make 100 widgets?",
			Topic:          "Logical Reasoning",
			ExpectedLength: "Short",
			Solution:       "5 minutes, each machine makes 1 widget in 5 minutes",
		},
		{
			English:        "Find the next number in the sequence: 1, 4, 9, 16, 25, ?",
			Topic:          "Patterns",
			ExpectedLength: "Short",
			Solution:       "36, these are perfect squares",
		},
	},
}

type questionJSON struct {
	English        string `json:"english"`
	Topic          string `json:"topic"`
	ExpectedLength string `json:"expectedLength"`
	Hint           string `json:"hint"`
	Solution       string `json:"solution"`
}

// ParseQuestion decodes a generated question for qtype. When the answer does
// not decode or has no question text, a canned question of the same type is
// returned with OutcomeDegraded; pick chooses among the candidates.
func ParseQuestion(raw string, qtype domain.QuestionType, pick int) (domain.Question, domain.Outcome) {
	var decoded questionJSON
	if err := decodeStrict(raw, &decoded); err != nil || strings.TrimSpace(decoded.English) == "" {
		return FallbackQuestion(qtype, pick), domain.OutcomeDegraded
	}

	q := domain.Question{
		English:        strings.TrimSpace(decoded.English),
		Topic:          orDefault(decoded.Topic, defaultQuestionTopic),
		ExpectedLength: orDefault(decoded.ExpectedLength, defaultExpectedLength),
		Type:           qtype,
	}
	switch qtype {
	case domain.QuestionDSA:
		q.Hint = strings.TrimSpace(decoded.Hint)
	case domain.QuestionAptitude:
		q.Solution = strings.TrimSpace(decoded.Solution)
	}
	return q, domain.OutcomeParsed
}

// FallbackQuestion returns a canned question of qtype. Unknown types get a
// conversation question.
func FallbackQuestion(qtype domain.QuestionType, pick int) domain.Question {
	candidates, ok := fallbackQuestions[qtype]
	if !ok {
		qtype = domain.QuestionConversation
		candidates = fallbackQuestions[qtype]
	}
	if pick < 0 {
		pick = -pick
	}
	q := candidates[pick%len(candidates)]
	q.Type = qtype
	return q
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
