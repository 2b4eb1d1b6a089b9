package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/call-summary/internal/config"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/call-summary/config.
Settings can also be overridden via environment variables.

Supported settings:
` + settingsHelp(),
		Example: `  callsummary config set company "Acme Corp"
  callsummary config get uploads-dir
  callsummary config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// settingsHelp lists keys with their env fallbacks.
func settingsHelp() string {
	var b strings.Builder
	for _, key := range config.Keys() {
		fmt.Fprintf(&b, "  %-15s (env: %s, default: %q)\n", key, config.EnvName(key), config.DefaultValue(key))
	}
	return strings.TrimRight(b.String(), "\n")
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

For uploads-dir, the directory is created if it doesn't exist.`,
		Example: `  callsummary config set uploads-dir ~/calls
  callsummary config set max-retries 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get the effective value of a setting.

Prints the config file value, else the environment variable, else the default.`,
		Example: `  callsummary config get company`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List all configuration values",
		Long:    `List every setting with its effective value and where it comes from.`,
		Example: `  callsummary config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if err := config.Validate(key, value); err != nil {
		return err
	}

	if key == config.KeyUploadsDir {
		expanded := config.ExpandPath(value)
		if err := config.EnsureUploadsDir(expanded); err != nil {
			return fmt.Errorf("invalid uploads-dir: %w", err)
		}
		value = expanded
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if err := config.CheckKey(key); err != nil {
		return err
	}

	value, _, err := effectiveValue(env, key)
	if err != nil {
		return err
	}
	if value != "" {
		_, _ = fmt.Fprintln(env.Stdout, value)
	}
	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	for _, key := range config.Keys() {
		value, source, err := effectiveValue(env, key)
		if err != nil {
			return err
		}
		if source != "" {
			_, _ = fmt.Fprintf(env.Stdout, "%s=%s (%s)\n", key, value, source)
			continue
		}
		_, _ = fmt.Fprintf(env.Stdout, "%s=%s\n", key, value)
	}
	return nil
}

// effectiveValue resolves key like config.Load does.
// source is "" for the config file, "from env" or "default".
func effectiveValue(env *Env, key string) (value, source string, err error) {
	value, err = config.Get(key)
	if err != nil {
		return "", "", err
	}
	if value != "" {
		return value, "", nil
	}
	if v := env.Getenv(config.EnvName(key)); v != "" {
		return v, "from env", nil
	}
	return config.DefaultValue(key), "default", nil
}
