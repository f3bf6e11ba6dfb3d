package domain

import "strings"

// Action identifies which prompt and parse variant handles a request.
type Action string

const (
	ActionReply     Action = "reply"
	ActionGrammar   Action = "grammar"
	ActionSimplify  Action = "simplify"
	ActionPolite    Action = "polite"
	ActionTranslate Action = "translate"
	ActionEvaluate  Action = "evaluate"
)

// Layout describes the textual shape the model is asked to produce.
type Layout string

const (
	// LayoutSegmented asks for numbered markdown sections with bold labels.
	LayoutSegmented Layout = "segmented"
	// LayoutOptionsJSON asks for {"options": [...]}.
	LayoutOptionsJSON Layout = "options_json"
	// LayoutTranslationJSON asks for {"translated": "..."}.
	LayoutTranslationJSON Layout = "translation_json"
	// LayoutEvaluationJSON asks for a score/feedback object.
	LayoutEvaluationJSON Layout = "evaluation_json"
)

var knownActions = []Action{
	ActionReply,
	ActionGrammar,
	ActionSimplify,
	ActionPolite,
	ActionTranslate,
	ActionEvaluate,
}

// KnownActions returns every supported action in display order.
func KnownActions() []Action {
	out := make([]Action, len(knownActions))
	copy(out, knownActions)
	return out
}

// KnownActionNames returns the supported actions as plain strings.
func KnownActionNames() []string {
	names := make([]string, 0, len(knownActions))
	for _, action := range knownActions {
		names = append(names, string(action))
	}
	return names
}

// ParseAction normalizes user input into an Action.
func ParseAction(raw string) (Action, bool) {
	candidate := Action(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.IsKnown() {
		return candidate, true
	}
	return "", false
}

// IsKnown reports whether the action has a prompt and parse profile.
func (a Action) IsKnown() bool {
	for _, known := range knownActions {
		if a == known {
			return true
		}
	}
	return false
}

func (a Action) String() string {
	return string(a)
}
