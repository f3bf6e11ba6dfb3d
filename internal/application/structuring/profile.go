package structuring

import "github.com/doeshing/tunemate-go/internal/domain"

// Profile configures parsing and fallback behavior for one action.
type Profile struct {
	Action domain.Action
	Layout domain.Layout
	// ExpectedOptions is the exact option count for LayoutOptionsJSON.
	ExpectedOptions int
	// OptionTitles label options by position.
	OptionTitles []string
	// Fillers pad a short option list, one template per position. Each takes the input text.
	Fillers []string
	// Defaults replace an unparseable option list. Each takes the lower-cased input text.
	Defaults []string
}

const defaultEncouragement = "You're doing great! Keep practicing."

var encouragements = map[domain.Action]string{
	domain.ActionReply:    "Great! Pick the tone that feels right for your situation.",
	domain.ActionGrammar:  "You're improving! These corrections will help you communicate more clearly.",
	domain.ActionSimplify: "Perfect! Simpler language often works better.",
	domain.ActionPolite:   "Nice work! Polite communication opens doors.",
}

// Encouragement returns the canned message for an action.
func Encouragement(action domain.Action) string {
	if msg, ok := encouragements[action]; ok {
		return msg
	}
	return defaultEncouragement
}

var profiles = map[domain.Action]Profile{
	domain.ActionReply:    {Action: domain.ActionReply, Layout: domain.LayoutSegmented},
	domain.ActionGrammar:  {Action: domain.ActionGrammar, Layout: domain.LayoutSegmented},
	domain.ActionSimplify: {Action: domain.ActionSimplify, Layout: domain.LayoutSegmented},
	domain.ActionPolite: {
		Action:          domain.ActionPolite,
		Layout:          domain.LayoutOptionsJSON,
		ExpectedOptions: 3,
		OptionTitles:    []string{"Polite & Respectful", "Very Formal & Courteous", "Extremely Polite & Diplomatic"},
		Fillers: []string{
			"Please %s",
			"I would appreciate if you could %s",
			"Would you kindly %s? Thank you.",
		},
		Defaults: []string{
			"Please %s",
			"I would appreciate if you could %s",
			"Would you be so kind as to %s? Thank you very much.",
		},
	},
	domain.ActionTranslate: {Action: domain.ActionTranslate, Layout: domain.LayoutTranslationJSON, ExpectedOptions: 1},
	domain.ActionEvaluate:  {Action: domain.ActionEvaluate, Layout: domain.LayoutEvaluationJSON, ExpectedOptions: 1},
}

// ProfileFor returns the profile for an action. Unknown actions are treated
// as segmented markdown.
func ProfileFor(action domain.Action) Profile {
	if profile, ok := profiles[action]; ok {
		return profile
	}
	return Profile{Action: action, Layout: domain.LayoutSegmented}
}

// ExpectsJSON reports whether the action's prompt asks for strict JSON.
func (p Profile) ExpectsJSON() bool {
	return p.Layout != domain.LayoutSegmented
}

func (p Profile) titleAt(index int) string {
	if index < len(p.OptionTitles) {
		return p.OptionTitles[index]
	}
	return optionTitle(index)
}
