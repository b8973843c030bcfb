package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewConfigCommand creates the local configuration command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cardctl configuration",
		Long:  "Read and write the persisted cardctl configuration file",
	}

	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

// configKeys are the keys exposed through config get/set/unset. Token material
// is deliberately excluded; it is managed by login, logout, and refresh.
var configKeys = []string{"api", "output", "lang", "skip_ssl_validation"}

func configKeyValid(key string) bool {
	for _, k := range configKeys {
		if k == key {
			return true
		}
	}

	return false
}

func configValue(config *Config, key string) string {
	switch key {
	case "api":
		return config.API
	case "output":
		return config.Output
	case "lang":
		return config.Lang
	case "skip_ssl_validation":
		if config.SkipSSLValidation {
			return "true"
		}

		return "false"
	}

	return ""
}

func setConfigValue(config *Config, key, value string) {
	switch key {
	case "api":
		config.API = value
	case "output":
		config.Output = value
	case "lang":
		config.Lang = value
	case "skip_ssl_validation":
		config.SkipSSLValidation = value == "true" || value == "1"
	}
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Show configuration values",
		Long:  "Show one configuration value, or all values when no key is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if len(args) == 0 {
				for _, key := range configKeys {
					fmt.Printf("%s: %s\n", key, configValue(config, key))
				}

				if config.Username != "" {
					fmt.Printf("logged in as: %s\n", config.Username)
				}

				return nil
			}

			key := args[0]
			if !configKeyValid(key) {
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
			}

			fmt.Println(configValue(config, key))

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !configKeyValid(key) {
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
			}

			config := loadConfig()
			setConfigValue(config, key, value)

			if err := saveConfigStruct(config); err != nil {
				return err
			}

			fmt.Printf("%s set\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Clear a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !configKeyValid(key) {
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
			}

			config := loadConfig()
			setConfigValue(config, key, "")

			if key == "skip_ssl_validation" {
				config.SkipSSLValidation = false
			}

			if err := saveConfigStruct(config); err != nil {
				return err
			}

			fmt.Printf("%s unset\n", key)

			return nil
		},
	}
}
