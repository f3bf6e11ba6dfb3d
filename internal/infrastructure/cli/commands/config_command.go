package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/tunemate-go/internal/app"
	configapp "github.com/doeshing/tunemate-go/internal/application/config"
	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/tunemate-go/internal/infrastructure/config"
)

const envKeyEditor = "EDITOR"

// NewConfigCommand creates the config command with all subcommands.
// Bare `tunemate config` prints the effective configuration.
func NewConfigCommand(container *app.Container) *cobra.Command {
	var asJSON bool

	show := func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Context(), container)
		if err != nil {
			return err
		}
		return writeConfig(cmd.OutOrStdout(), cfg, asJSON)
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit TuneMate configuration",
		RunE:  show,
	}
	configCmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON instead of YAML")

	showCmd := &cobra.Command{Use: "show", Short: "Show the effective configuration", RunE: show}
	showCmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON instead of YAML")

	configCmd.AddCommand(
		showCmd,
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			RunE: func(cmd *cobra.Command, args []string) error {
				loader, err := helpers.GetConfigLoader(container)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), loader.Path())
				return nil
			},
		},
		newConfigGetCommand(container),
		&cobra.Command{
			Use:     "set <key> <value>",
			Short:   "Set a value by dotted key (value accepts YAML syntax)",
			Example: "  tunemate config set cache.ttl_minutes 30\n  tunemate config set preferences.target_language spanish",
			Args:    cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setConfigValue(cmd.Context(), container, args[0], strings.Join(args[1:], " "))
			},
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Open the configuration in $EDITOR and validate the result",
			RunE: func(cmd *cobra.Command, args []string) error {
				return editConfig(cmd.Context(), cmd.OutOrStdout(), container)
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the configuration file",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(cmd.Context(), container)
				if err != nil {
					return err
				}
				if err := configapp.Validate(cfg); err != nil {
					return fmt.Errorf("configuration validation failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Back up the current file and restore the defaults",
			RunE: func(cmd *cobra.Command, args []string) error {
				return resetConfig(cmd.OutOrStdout(), container)
			},
		},
		&cobra.Command{
			Use:   "diff",
			Short: "Show how the configuration differs from the defaults",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(cmd.Context(), container)
				if err != nil {
					return err
				}
				diff := cmp.Diff(configinfra.DefaultConfig(), cfg)
				if diff == "" {
					fmt.Fprintln(cmd.OutOrStdout(), MsgNoDifferencesFromDefault)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), diff)
				return nil
			},
		},
	)

	return configCmd
}

func newConfigGetCommand(container *app.Container) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:     "get <key>",
		Short:   "Print a value by dotted key",
		Example: "  tunemate config get history.retention_days",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				key = args[0]
			}
			if key == "" {
				return errors.New(ErrKeyRequired)
			}
			cfg, err := loadConfig(cmd.Context(), container)
			if err != nil {
				return err
			}
			tree, err := configTree(cfg)
			if err != nil {
				return err
			}
			value, found := helpers.TraverseNestedMap(tree, strings.Split(key, "."))
			if !found {
				return fmt.Errorf("key %s not found in configuration", key)
			}
			data, err := yaml.Marshal(value)
			if err != nil {
				return fmt.Errorf("failed to marshal value: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Key path (e.g., preferences.default_model)")
	return cmd
}

func loadConfig(ctx context.Context, container *app.Container) (domain.Config, error) {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func writeConfig(out io.Writer, cfg domain.Config, asJSON bool) error {
	tree, err := configTree(cfg)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	}
	return yaml.NewEncoder(out).Encode(tree)
}

func setConfigValue(ctx context.Context, container *app.Container, key, value string) error {
	cfg, err := loadConfig(ctx, container)
	if err != nil {
		return err
	}
	tree, err := configTree(cfg)
	if err != nil {
		return err
	}
	if !helpers.SetNestedMapValue(tree, strings.Split(key, "."), helpers.ParseYAMLValue(value)) {
		return fmt.Errorf("unable to set key %s", key)
	}
	updated, err := configFromTree(tree)
	if err != nil {
		return err
	}
	return helpers.SaveConfigWithValidation(container, updated)
}

// editConfig runs $EDITOR on the file, then reloads it so a broken edit is
// reported immediately.
func editConfig(ctx context.Context, out io.Writer, container *app.Container) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}

	editor := os.Getenv(envKeyEditor)
	if editor == "" {
		editor = DefaultEditorCommand
	}
	cmd := exec.CommandContext(ctx, editor, loader.Path())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editor, err)
	}

	cfg, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("edited configuration is invalid: %w", err)
	}
	fmt.Fprintln(out, MsgConfigurationValid)
	return nil
}

func resetConfig(out io.Writer, container *app.Container) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}
	if _, err := os.Stat(loader.Path()); err == nil {
		backup, err := loader.Backup()
		if err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
		fmt.Fprintf(out, "Existing config backed up to: %s\n", backup)
	}

	cfg, err := loader.Reset()
	if err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}
	fmt.Fprintf(out, "Configuration reset at %s\n", loader.Path())
	return writeConfig(out, cfg, false)
}

// configTree round-trips cfg through YAML so dotted keys follow the file's
// own field names.
func configTree(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return tree, nil
}

func configFromTree(tree map[string]interface{}) (domain.Config, error) {
	raw, err := yaml.Marshal(tree)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to marshal updated map: %w", err)
	}
	var cfg domain.Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("failed to unmarshal to Config: %w", err)
	}
	return cfg, nil
}
