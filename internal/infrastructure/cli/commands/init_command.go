package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/tunemate-go/internal/app"
	configapp "github.com/doeshing/tunemate-go/internal/application/config"
	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/tunemate-go/internal/infrastructure/config"
)

// NewInitCommand creates the init command to (re)write the configuration file.
func NewInitCommand(container *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize TuneMate configuration",
		Long: `Initialize TuneMate configuration with default settings.

This command writes ~/.tunemate/config.yaml (or $TUNEMATE_CONFIG) from the
built-in defaults after asking for a few preferences. Afterwards:
  1. Export the API key for your model (e.g. GEMINI_API_KEY)
  2. Run 'tunemate doctor' to verify your setup
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitWizard(cmd, container, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config without prompting")

	return cmd
}

func runInitWizard(cmd *cobra.Command, container *app.Container, force bool) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())
	configPath := loader.Path()

	if !shouldProceedWithInit(out, reader, configPath, force) {
		fmt.Fprintln(out, MsgInitCancelled)
		return nil
	}

	cfg := promptForUserPreferences(out, reader, configinfra.DefaultConfig())

	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		backupPath, err := loader.Backup()
		if err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
		fmt.Fprintf(out, "Existing config backed up to: %s\n", backupPath)
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration initialized: %s\n", configPath)
	fmt.Fprintln(out, "Next: export your model's API key, then run 'tunemate doctor'.")
	return nil
}

// shouldProceedWithInit asks before overwriting an existing file unless forced.
func shouldProceedWithInit(out io.Writer, reader *bufio.Reader, configPath string, force bool) bool {
	if _, err := os.Stat(configPath); err != nil || force {
		return true
	}
	return helpers.PromptForYesNo(out, reader, fmt.Sprintf("%s exists. Overwrite?", configPath), false)
}

func promptForUserPreferences(out io.Writer, reader *bufio.Reader, cfg domain.Config) domain.Config {
	fmt.Fprintln(out, "\nConfiguration preferences:")

	names := make([]string, 0, len(cfg.Models))
	for _, model := range cfg.Models {
		names = append(names, model.Name)
	}
	cfg.Preferences.DefaultModel = helpers.PromptForOption(out, reader,
		"Default model", cfg.Preferences.DefaultModel, names)

	cfg.Preferences.TargetLanguage = helpers.PromptForChoice(out, reader,
		"Default translation language", cfg.GetTargetLanguage())

	cfg.History.Enabled = helpers.PromptForYesNo(out, reader,
		"Record history?", cfg.History.Enabled)
	if cfg.History.Enabled {
		cfg.History.Backend = helpers.PromptForOption(out, reader, "History backend",
			cfg.GetHistoryBackend(), []string{domain.HistoryBackendSQLite, domain.HistoryBackendFile})
		cfg.History.RetentionDays = helpers.PromptForInt(out, reader,
			"Keep history for how many days (0 keeps everything)", cfg.GetHistoryRetentionDays())
	}

	cfg.Cache.Enabled = helpers.PromptForYesNo(out, reader,
		"Cache model responses?", cfg.Cache.Enabled)
	if cfg.Cache.Enabled {
		cfg.Cache.Backend = helpers.PromptForOption(out, reader, "Cache backend",
			cfg.GetCacheBackend(), []string{domain.CacheBackendFile, domain.CacheBackendRedis})
		if cfg.Cache.Backend == domain.CacheBackendRedis {
			cfg.Cache.RedisURL = helpers.PromptForChoice(out, reader, "Redis URL", "redis://localhost:6379/0")
		}
	}

	return cfg
}
