// Package configcmd inspects the resolved CLI configuration.
package configcmd

import (
	"fmt"

	"github.com/fraatlas/fraportal/cmd/cli/settings"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const groupID = "config"

var Group = &cobra.Group{ //nolint:gochecknoglobals // cobra group
	ID:    groupID,
	Title: "Configuration:",
}

// New returns the config command with its subcommands.
func New(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage the CLI configuration",
		GroupID: groupID,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := yaml.Marshal(settings.Load(v))
			if err != nil {
				return errors.Wrap(err, "marshal config")
			}
			if file := v.ConfigFileUsed(); file != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", file)
			}
			_, _ = cmd.OutOrStdout().Write(out)
			return nil
		},
	})
	return cmd
}
