package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/ports"
)

const offlineProviderName = "offline"

// quoted pulls the quoted user text back out of a rendered prompt.
var quoted = regexp.MustCompile(`"([^"\n]+)"`)

// offlineProvider answers locally in the format each action's prompt asks
// for. It lets the CLI and server run without credentials.
type offlineProvider struct {
	model domain.ModelDefinition
}

func newOfflineProvider(model domain.ModelDefinition) ports.Provider {
	return &offlineProvider{model: model}
}

func (p *offlineProvider) Name() string {
	return offlineProviderName
}

func (p *offlineProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *offlineProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	if err := ctx.Err(); err != nil {
		return ports.ProviderResponse{}, err
	}
	if req.Question != "" {
		return ports.ProviderResponse{Text: offlineQuestion(req.Question)}, nil
	}
	quotes := quotedStrings(req.Prompt)
	text := firstOr(quotes, 0, "your message")

	var out string
	switch req.Action {
	case domain.ActionReply:
		out = fmt.Sprintf(`1. **Friendly, Warm Reply:**
**Reply:** Thanks so much for your message! Happy to help with "%[1]s".
**Note:** Good for friends and classmates.

2. **Polite, Professional Reply:**
**Reply:** Thank you for reaching out. I will look into "%[1]s" and get back to you.
**Note:** Good for teachers and work.

3. **Casual, Relaxed Reply:**
**Reply:** Sure thing, sounds good!
**Note:** Good for quick chats.`, text)
	case domain.ActionGrammar:
		out = fmt.Sprintf(`1. **Corrected Version:**
%[1]s
**Changes:** No changes were needed offline.

2. **Alternative Version:**
%[1]s

3. **Encouragement:**
Keep writing every day!`, capitalizeSentence(text))
	case domain.ActionSimplify:
		out = fmt.Sprintf(`1. **Simplified Version:**
%[1]s
**Explanation:** Kept the original wording.

2. **Beginner-Friendly Version:**
%[1]s

3. **Meaning Summary:**
%[1]s`, text)
	case domain.ActionPolite:
		out = mustJSON(map[string][]string{"options": {
			"Please " + text,
			"Could you please " + text + "?",
			"I would be very grateful if you could " + text + ". Thank you!",
		}})
	case domain.ActionTranslate:
		out = mustJSON(map[string]string{"translated": text})
	case domain.ActionEvaluate:
		answer := firstOr(quotes, 1, text)
		out = mustJSON(map[string]interface{}{
			"score":     7,
			"feedback":  "Nice answer. This offline evaluation does not grade in depth.",
			"mistakes":  []string{},
			"improved":  answer,
			"strengths": []string{"You answered the question."},
		})
	default:
		return ports.ProviderResponse{}, fmt.Errorf("offline provider: unsupported action %q", req.Action)
	}
	return ports.ProviderResponse{Text: out}, nil
}

var offlineQuestions = map[domain.QuestionType]map[string]string{
	domain.QuestionConversation: {"english": "What did you do last weekend?", "topic": "Weekends", "expectedLength": "Short"},
	domain.QuestionDSA:          {"english": "How would you check whether a string is a palindrome?", "topic": "Strings", "expectedLength": "Medium", "hint": "Compare characters from both ends"},
	domain.QuestionTech:         {"english": "What does an HTTP status code tell the client?", "topic": "APIs", "expectedLength": "Medium"},
	domain.QuestionAptitude:     {"english": "Priya is twice as old as Arjun. In 5 years their ages will add up to 40. How old is Arjun now?", "topic": "Quantitative", "expectedLength": "Short", "solution": "10"},
}

func offlineQuestion(qtype domain.QuestionType) string {
	fields, ok := offlineQuestions[qtype]
	if !ok {
		qtype = domain.QuestionConversation
		fields = offlineQuestions[qtype]
	}
	out := map[string]string{"type": string(qtype)}
	for k, v := range fields {
		out[k] = v
	}
	return mustJSON(out)
}

func quotedStrings(prompt string) []string {
	var out []string
	for _, match := range quoted.FindAllStringSubmatch(prompt, -1) {
		out = append(out, strings.TrimSpace(match[1]))
	}
	return out
}

func firstOr(values []string, index int, fallback string) string {
	if index < len(values) && values[index] != "" {
		return values[index]
	}
	return fallback
}

func capitalizeSentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	s = string(unicode.ToUpper(r)) + s[size:]
	if !strings.ContainsAny(s[len(s)-1:], ".!?") {
		s += "."
	}
	return s
}

func mustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
