package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/tunemate-go/internal/app"
	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/infrastructure/cli/helpers"
)

// NewQuestionCommand generates a practice question to answer with evaluate.
func NewQuestionCommand(container *app.Container) *cobra.Command {
	var (
		qtype      string
		difficulty string
		topic      string
		model      string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "question",
		Short: "Generate a practice question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ProcessService == nil {
				return errors.New("process service unavailable")
			}
			result, err := container.ProcessService.Question(domain.QuestionRequest{
				Context:       cmd.Context(),
				Topic:         topic,
				Type:          qtype,
				Difficulty:    difficulty,
				ModelOverride: model,
			})
			if err != nil {
				if errors.Is(err, domain.ErrUnknownQuestionType) {
					return fmt.Errorf("%w (available types: %s)", err, questionTypeNames())
				}
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					domain.Question
					Difficulty domain.Difficulty `json:"difficulty"`
					Outcome    domain.Outcome    `json:"outcome"`
				}{result.Question, result.Difficulty, result.Outcome})
			}

			q := result.Question
			fmt.Fprintln(out, helpers.Title.Render(fmt.Sprintf("%s question (%s)", q.Type, result.Difficulty)))
			fmt.Fprintln(out, helpers.Box.Render(q.English))
			fmt.Fprintln(out, helpers.Muted.Render(fmt.Sprintf("topic %s, expected length %s, model %s", q.Topic, q.ExpectedLength, result.Model)))
			if q.Hint != "" {
				fmt.Fprintf(out, "Hint: %s\n", q.Hint)
			}
			if q.Solution != "" {
				fmt.Fprintf(out, "Solution: %s\n", q.Solution)
			}
			if result.Outcome != domain.OutcomeParsed {
				fmt.Fprintln(out, helpers.OutcomeStyle(result.Outcome).Render("model answer did not parse; showing a stock question"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&qtype, "type", "t", string(domain.QuestionRandom), "Question type ("+questionTypeNames()+")")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", string(domain.DifficultyBeginner), "beginner|intermediate|advanced")
	cmd.Flags().StringVar(&topic, "topic", "", "Topic hint for the model")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the question as JSON")
	return cmd
}

func questionTypeNames() string {
	names := make([]string, 0, len(domain.KnownQuestionTypes())+1)
	for _, qtype := range domain.KnownQuestionTypes() {
		names = append(names, string(qtype))
	}
	names = append(names, string(domain.QuestionRandom))
	return strings.Join(names, "|")
}
