package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/fraatlas/fraportal/cmd/cli/claimscmd"
	"github.com/fraatlas/fraportal/cmd/cli/configcmd"
	"github.com/fraatlas/fraportal/cmd/cli/settings"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string
	rootCmd := &cobra.Command{
		Use:           "fraportal-cli",
		Short:         "Track and report Forest Rights Act claims from the command line",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return settings.ReadConfigFile(v, cfgFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fraportal.yaml)")
	flags.String("api-url", "", "claims API base URL")
	flags.Duration("timeout", 0, "request timeout")
	flags.String("session-file", "", "where the login token is stored")
	flags.BoolP("verbose", "v", false, "log API requests")
	_ = v.BindPFlag(settings.KeyAPIURL, flags.Lookup("api-url"))
	_ = v.BindPFlag(settings.KeyTimeout, flags.Lookup("timeout"))
	_ = v.BindPFlag(settings.KeySessionFile, flags.Lookup("session-file"))
	_ = v.BindPFlag(settings.KeyVerbose, flags.Lookup("verbose"))

	rootCmd.AddGroup(claimscmd.Group, configcmd.Group)
	rootCmd.AddCommand(
		claimscmd.NewLogin(v),
		claimscmd.NewLogout(v),
		claimscmd.NewTrack(v),
		claimscmd.NewSummary(v),
		configcmd.New(v),
	)
	return rootCmd
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(settings.New()).ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
