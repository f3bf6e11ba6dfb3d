package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/tunemate-go/internal/app"
	"github.com/doeshing/tunemate-go/internal/application/prompt"
	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/tunemate-go/internal/ports"
)

const modelTestTimeout = 20 * time.Second

// NewModelsCommand creates the models command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage model configurations",
	}

	modelsCmd.AddCommand(
		newModelsListCommand(container),
		newModelsTestCommand(container),
		newModelsUseCommand(container),
		newModelsAddCommand(container),
		newModelsRemoveCommand(container),
	)

	return modelsCmd
}

func newModelsListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

func newModelsTestCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "test <name>",
		Short: "Send a short reply prompt to a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return testModel(cmd.Context(), cmd.OutOrStdout(), container, args[0])
		},
	}
}

func newModelsUseCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Set default model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if !cfg.HasModel(args[0]) {
				return fmt.Errorf("model %s not found", args[0])
			}
			cfg.Preferences.DefaultModel = args[0]
			return helpers.SaveConfigWithValidation(container, cfg)
		},
	}
}

// modelAddOptions holds options for adding a new model
type modelAddOptions struct {
	Name        string
	Provider    string
	Endpoint    string
	ModelID     string
	AuthEnv     string
	SystemFile  string
	MaxTokens   int
	Temperature float32
}

func newModelsAddCommand(container *app.Container) *cobra.Command {
	var opts modelAddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new model definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return addModel(cmd.Context(), container, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Model name (identifier)")
	cmd.Flags().StringVar(&opts.Provider, "provider", string(domain.ProviderGemini), "Provider kind (gemini|http|offline)")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "Endpoint URL (required for http)")
	cmd.Flags().StringVar(&opts.ModelID, "model-id", "", "Model identifier at provider")
	cmd.Flags().StringVar(&opts.AuthEnv, "auth-env", "", "Environment variable containing API key")
	cmd.Flags().StringVar(&opts.SystemFile, "system-file", "", "YAML file with system prompt messages")
	cmd.Flags().IntVar(&opts.MaxTokens, "max-tokens", domain.DefaultMaxTokens, "Max tokens for responses")
	cmd.Flags().Float32Var(&opts.Temperature, "temperature", 0, "Sampling temperature (0 uses the provider default)")

	return cmd
}

func newModelsRemoveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove model definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			models, idx := helpers.RemoveModelFromList(cfg.Models, args[0])
			if idx < 0 {
				return fmt.Errorf("model %s not found", args[0])
			}
			cfg.Models = models
			if cfg.Preferences.DefaultModel == args[0] {
				cfg.Preferences.DefaultModel = ""
				if len(models) > 0 {
					cfg.Preferences.DefaultModel = models[0].Name
				}
			}
			return helpers.SaveConfigWithValidation(container, cfg)
		},
	}
}

func listModels(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPROVIDER\tMODEL ID\tENDPOINT\tDEFAULT")
	for _, model := range cfg.Models {
		defaultMarker := ""
		if cfg.Preferences.DefaultModel == model.Name {
			defaultMarker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", model.Name, model.Kind(), model.ModelID, model.Endpoint, defaultMarker)
	}
	return w.Flush()
}

func testModel(ctx context.Context, out io.Writer, container *app.Container, modelName string) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	model, exists := cfg.FindModelByName(modelName)
	if !exists {
		return fmt.Errorf("model %s not found", modelName)
	}
	if container.Factory == nil {
		return errors.New("provider factory unavailable")
	}

	provider, err := container.Factory.ForModel(model)
	if err != nil {
		return fmt.Errorf("failed to create provider for model %s: %w", modelName, err)
	}

	promptText, err := prompt.Build(domain.ActionReply, "Thanks for your help today!", "")
	if err != nil {
		return err
	}

	testCtx, cancel := context.WithTimeout(ctx, modelTestTimeout)
	defer cancel()

	resp, err := provider.Generate(testCtx, ports.ProviderRequest{Prompt: promptText, Action: domain.ActionReply})
	if err != nil {
		return fmt.Errorf("model %s test failed: %w", modelName, err)
	}

	fmt.Fprintf(out, "Model %s responded with %d characters.\n", modelName, len(resp.Text))
	return nil
}

func addModel(ctx context.Context, container *app.Container, opts modelAddOptions) error {
	if opts.Name == "" {
		return errors.New(ErrModelNameRequired)
	}
	if opts.MaxTokens <= 0 {
		return fmt.Errorf("max-tokens must be positive, got %d", opts.MaxTokens)
	}

	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.HasModel(opts.Name) {
		return fmt.Errorf("model %s already exists", opts.Name)
	}

	var system []domain.PromptMessage
	if opts.SystemFile != "" {
		system, err = helpers.LoadPromptMessagesFromFile(opts.SystemFile)
		if err != nil {
			return err
		}
	}

	cfg.Models = append(cfg.Models, domain.ModelDefinition{
		Name:        opts.Name,
		Provider:    domain.ProviderKind(opts.Provider),
		Endpoint:    opts.Endpoint,
		ModelID:     opts.ModelID,
		AuthEnvVar:  opts.AuthEnv,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		System:      system,
	})

	return helpers.SaveConfigWithValidation(container, cfg)
}
