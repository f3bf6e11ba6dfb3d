// Package cli is the tunemate command line: one-shot processing, the HTTP
// server and maintenance commands for history, cache and configuration.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doeshing/tunemate-go/internal/app"
	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/infrastructure/cli/commands"
	"github.com/doeshing/tunemate-go/internal/infrastructure/httpapi"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd wires the cobra root command. The container is built once flags
// are parsed, so --config and --verbose take effect for every subcommand.
func NewRootCmd(ctx context.Context, opts Options) *cobra.Command {
	container := &app.Container{}
	var process processOptions

	root := &cobra.Command{
		Use:   "tunemate [text]",
		Short: "TuneMate - language practice assistant",
		Long:  "TuneMate rewrites, corrects, translates and evaluates text with a generative model and returns structured options.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := app.BuildContainer(cmd.Context(), app.Options{Verbose: opts.Verbose, ConfigPath: opts.ConfigPath})
			if err != nil {
				return err
			}
			*container = *built
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return container.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runProcess(cmd, container, process, args)
		},
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetContext(ctx)
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Config file (default ~/.tunemate/config.yaml or $TUNEMATE_CONFIG)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging")
	bindProcessFlags(root, &process)

	root.AddCommand(
		newProcessCommand(container),
		newServeCommand(container),
		commands.NewQuestionCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewCacheCommand(container),
		commands.NewConfigCommand(container),
		commands.NewModelsCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewInitCommand(container),
		commands.NewActionsCommand(),
		commands.NewVersionCommand(),
	)
	return root
}

type processOptions struct {
	action    string
	reference string
	model     string
	asJSON    bool
}

func bindProcessFlags(cmd *cobra.Command, opts *processOptions) {
	cmd.Flags().StringVarP(&opts.action, "action", "a", string(domain.ActionReply),
		fmt.Sprintf("Action to run (%s)", strings.Join(domain.KnownActionNames(), "|")))
	cmd.Flags().StringVarP(&opts.reference, "reference", "r", "", "Reference text (target language for translate, question for evaluate)")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the structured result as JSON")
}

func newProcessCommand(container *app.Container) *cobra.Command {
	var opts processOptions
	cmd := &cobra.Command{
		Use:   "process [text]",
		Short: "Process text with an action and print the options",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, container, opts, args)
		},
	}
	bindProcessFlags(cmd, &opts)
	return cmd
}

func runProcess(cmd *cobra.Command, container *app.Container, opts processOptions, args []string) error {
	if container.ProcessService == nil {
		return errors.New("process service unavailable")
	}
	result, err := container.ProcessService.Process(domain.ProcessRequest{
		Context:       cmd.Context(),
		Text:          strings.Join(args, " "),
		Reference:     opts.reference,
		Action:        opts.action,
		ModelOverride: opts.model,
		Provenance:    domain.Provenance{IP: "local", UserAgent: "tunemate-cli"},
	})
	if err != nil {
		if domain.IsValidation(err) {
			return fmt.Errorf("%w (available actions: %s)", err, strings.Join(domain.KnownActionNames(), ", "))
		}
		return err
	}

	if opts.asJSON {
		return writeResultJSON(cmd.OutOrStdout(), result)
	}
	fmt.Fprint(cmd.OutOrStdout(), RenderResult(result))
	return nil
}

func writeResultJSON(out io.Writer, result domain.ProcessResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		domain.StructuredResponse
		Result         string                `json:"result"`
		ProcessingInfo domain.ProcessingInfo `json:"processingInfo"`
	}{
		StructuredResponse: result.Response,
		Result:             result.Response.PrimaryContent(),
		ProcessingInfo:     result.ProcessingInfo,
	})
}

func newServeCommand(container *app.Container) *cobra.Command {
	var (
		addr    string
		devMode bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = container.Config.GetServerAddr()
			}
			server := &httpapi.Server{
				Process:  container.ProcessService,
				Question: container.ProcessService,
				History:  container.HistoryStore,
				Logger:   container.Logger,
				DevMode:  devMode || container.Config.Server.DevMode,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "%s listening on %s\n", domain.ServiceName, addr)
			return httpapi.Run(ctx, addr, server.Handler(), container.Logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Include error details in 500 responses")
	return cmd
}
