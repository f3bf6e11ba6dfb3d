package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/doeshing/tunemate-go/internal/domain"
)

var questionTemplates = map[domain.QuestionType]*template.Template{
	domain.QuestionConversation: mustParseQuestion(domain.QuestionConversation, conversationQuestionTemplate),
	domain.QuestionDSA:          mustParseQuestion(domain.QuestionDSA, dsaQuestionTemplate),
	domain.QuestionTech:         mustParseQuestion(domain.QuestionTech, techQuestionTemplate),
	domain.QuestionAptitude:     mustParseQuestion(domain.QuestionAptitude, aptitudeQuestionTemplate),
}

// defaultTopics fill the prompt when the caller gives no topic.
var defaultTopics = map[domain.QuestionType]string{
	domain.QuestionConversation: "general",
	domain.QuestionDSA:          "arrays, strings, or basic algorithms",
	domain.QuestionTech:         "web development, programming concepts, or technology trends",
	domain.QuestionAptitude:     "logical reasoning, quantitative, or analytical thinking",
}

func mustParseQuestion(qtype domain.QuestionType, body string) *template.Template {
	return template.Must(template.New("question-" + string(qtype)).Parse(body))
}

type questionData struct {
	Topic      string
	Difficulty domain.Difficulty
}

// BuildQuestion renders the question prompt for a concrete type. Random must
// be resolved by the caller first.
func BuildQuestion(qtype domain.QuestionType, difficulty domain.Difficulty, topic string) (string, error) {
	tmpl, ok := questionTemplates[qtype]
	if !ok {
		return "", fmt.Errorf("no question template for %q", qtype)
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = defaultTopics[qtype]
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, questionData{Topic: topic, Difficulty: difficulty}); err != nil {
		return "", fmt.Errorf("render %s question prompt: %w", qtype, err)
	}
	return sb.String(), nil
}

const conversationQuestionTemplate = `Generate a simple English conversation question for teenagers to practice speaking.

Topic: {{.Topic}}
Difficulty: {{.Difficulty}}

Requirements:
- Question should be engaging for teenagers (13-18 years)
- Encourage 2-3 sentence answers
- Should be about everyday life, interests, or simple opinions
- Avoid complex or sensitive topics

Respond with ONLY a valid JSON object in this format:
{
  "english": "[The English question]",
  "topic": "[Topic category like 'Hobbies', 'Food', 'Friends']",
  "expectedLength": "[Short/Medium]",
  "type": "conversation"
}
`

const dsaQuestionTemplate = `Generate a Data Structures & Algorithms question suitable for learning.

Topic: {{.Topic}}
Difficulty: {{.Difficulty}}

Requirements:
- Question should be educational and clear
- Appropriate for {{.Difficulty}} level
- Include a brief hint if it helps
- Should encourage problem-solving thinking

Respond with ONLY a valid JSON object in this format:
{
  "english": "[The DSA question]",
  "topic": "[DSA topic like 'Arrays', 'Strings', 'Sorting', 'Recursion']",
  "expectedLength": "[Short/Medium/Long]",
  "type": "dsa",
  "hint": "[Optional hint or approach]"
}
`

const techQuestionTemplate = `Generate a technology or software development question for learning and discussion.

Topic: {{.Topic}}
Difficulty: {{.Difficulty}}

Requirements:
- Question should be relevant to current technology
- Appropriate for {{.Difficulty}} level learners
- Encourage understanding of concepts, not memorization

Respond with ONLY a valid JSON object in this format:
{
  "english": "[The tech question]",
  "topic": "[Tech area like 'Web Development', 'JavaScript', 'APIs']",
  "expectedLength": "[Short/Medium/Long]",
  "type": "tech"
}
`

const aptitudeQuestionTemplate = `Generate an aptitude question to test logical thinking and problem-solving.

Topic: {{.Topic}}
Difficulty: {{.Difficulty}}

Requirements:
- Question should test analytical or logical thinking
- Any person named in the question should have an Indian name
- Appropriate for {{.Difficulty}} level
- Can include puzzles, logical reasoning, basic math, or pattern recognition

Respond with ONLY a valid JSON object in this format:
{
  "english": "[The aptitude question]",
  "topic": "[Aptitude area like 'Logical Reasoning', 'Quantitative', 'Patterns']",
  "expectedLength": "[Short/Medium]",
  "type": "aptitude",
  "solution": "[Brief solution approach or answer]"
}
`
