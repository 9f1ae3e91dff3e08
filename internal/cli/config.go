package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/autorelease/internal/config"
	clierrors "github.com/ariel-frischer/autorelease/internal/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show and change the configuration",
		GroupID: GroupConfig,
	}
	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigKeysCmd(),
		newConfigSetCmd(a),
		newConfigInitCmd(a),
		newConfigMigrateCmd(a),
	)
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration and where each value came from",
		Long: `Show the effective configuration after merging defaults, the user file,
the project file and AUTORELEASE_* environment variables. Secrets are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			redacted := cfg.Redacted()

			if asYAML {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(redacted); err != nil {
					return fmt.Errorf("encoding config: %w", err)
				}
				return enc.Close()
			}

			values := redacted.Values()
			dim := color.New(color.Faint).SprintFunc()
			for _, key := range config.SortedKeys() {
				src, ok := a.sources[key]
				if !ok {
					src = config.SourceDefault
				}
				fmt.Fprintf(out, "%-26s %s %s\n", key, values[key], dim("("+string(src)+")"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print as YAML without sources")
	return cmd
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every configuration key with its type and default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			bold := color.New(color.Bold).SprintFunc()
			for _, key := range config.SortedKeys() {
				schema := config.KnownKeys[key]
				fmt.Fprintf(out, "%s (%s, default %v)\n    %s\n", bold(key), schema.Type, schema.Default, schema.Description)
				if len(schema.AllowedValues) > 0 {
					fmt.Fprintf(out, "    allowed: %v\n", schema.AllowedValues)
				}
			}
			return nil
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	var user bool
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value in the project or user file",
		Example: `  autorelease config set changelog.other_commits drop
  autorelease config set summary.model gpt-4o --user`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configTarget(user)
			if err != nil {
				return err
			}
			if err := config.SetConfigValue(path, args[0], args[1]); err != nil {
				var unknown config.ErrUnknownKey
				if errors.As(err, &unknown) {
					return clierrors.NewArgumentError(err.Error(), "List valid keys: autorelease config keys")
				}
				return clierrors.Wrap(err, clierrors.Configuration)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "Write to the user config instead of the project config")
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var user, force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config file with all defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configTarget(user)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return clierrors.NewConfigError(
					fmt.Sprintf("config already exists at %s", path),
					"Use --force to overwrite it",
				)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("Created"), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "Create the user config instead of the project config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigMigrateCmd(a *app) *cobra.Command {
	var user, project, dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Convert legacy JSON config files to YAML",
		Long: `Convert config.json files to config.yml. Both the user and the project
file are migrated unless --user or --project is given. The JSON file is kept
as config.json.bak.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !user && !project {
				user, project = true, true
			}
			var results []*config.MigrationResult
			if user {
				r, err := config.MigrateUserConfig(dryRun)
				if err != nil {
					return clierrors.Wrap(err, clierrors.Configuration)
				}
				results = append(results, r)
			}
			if project {
				r, err := config.MigrateProjectConfig(a.projectDir(), dryRun)
				if err != nil {
					return clierrors.Wrap(err, clierrors.Configuration)
				}
				results = append(results, r)
			}
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "Migrate only the user config")
	cmd.Flags().BoolVar(&project, "project", false, "Migrate only the project config")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be migrated")
	return cmd
}

// configTarget is the file written by config set and config init.
func (a *app) configTarget(user bool) (string, error) {
	if !user {
		return a.projectConfigPath(), nil
	}
	path, err := config.UserConfigPath()
	if err != nil {
		return "", clierrors.Wrap(err, clierrors.Configuration)
	}
	return path, nil
}
