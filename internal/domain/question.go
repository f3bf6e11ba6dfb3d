package domain

import (
	"context"
	"strings"
)

// QuestionType selects the kind of practice question to generate.
type QuestionType string

const (
	QuestionConversation QuestionType = "conversation"
	QuestionDSA          QuestionType = "dsa"
	QuestionTech         QuestionType = "tech"
	QuestionAptitude     QuestionType = "aptitude"
	// QuestionRandom picks one of the concrete types per request.
	QuestionRandom QuestionType = "random"
)

var knownQuestionTypes = []QuestionType{
	QuestionConversation,
	QuestionDSA,
	QuestionTech,
	QuestionAptitude,
}

// KnownQuestionTypes returns the concrete question types in display order.
func KnownQuestionTypes() []QuestionType {
	out := make([]QuestionType, len(knownQuestionTypes))
	copy(out, knownQuestionTypes)
	return out
}

// ParseQuestionType normalizes user input. Empty input means random.
func ParseQuestionType(raw string) (QuestionType, bool) {
	candidate := QuestionType(strings.ToLower(strings.TrimSpace(raw)))
	if candidate == "" || candidate == QuestionRandom {
		return QuestionRandom, true
	}
	for _, known := range knownQuestionTypes {
		if candidate == known {
			return candidate, true
		}
	}
	return "", false
}

// Difficulty is the learner level a question targets.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ParseDifficulty normalizes user input. Empty input means beginner.
func ParseDifficulty(raw string) (Difficulty, bool) {
	switch candidate := Difficulty(strings.ToLower(strings.TrimSpace(raw))); candidate {
	case "":
		return DifficultyBeginner, true
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return candidate, true
	default:
		return "", false
	}
}

// QuestionRequest asks for one practice question.
type QuestionRequest struct {
	Context       context.Context
	Topic         string
	Type          string
	Difficulty    string
	ModelOverride string
}

// Question is a generated practice question. Hint is only filled for dsa
// questions and Solution only for aptitude ones.
type Question struct {
	English        string       `json:"english"`
	Topic          string       `json:"topic"`
	ExpectedLength string       `json:"expectedLength"`
	Type           QuestionType `json:"type"`
	Hint           string       `json:"hint,omitempty"`
	Solution       string       `json:"solution,omitempty"`
}

// QuestionResult wraps a question with how it was obtained.
type QuestionResult struct {
	Question   Question
	Difficulty Difficulty
	Outcome    Outcome
	Model      string
}

// QuestionService exposes the question generation use case.
type QuestionService interface {
	Question(QuestionRequest) (QuestionResult, error)
}
