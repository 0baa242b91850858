package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wenzapen/easysql/cmd/db"
	"github.com/wenzapen/easysql/config"
	"github.com/wenzapen/easysql/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version",
		Long:  "print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version.Printer(cmd.OutOrStdout())
		},
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "print a sample config.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Write(cmd.OutOrStdout(), config.Default())
		},
	})
	return configCmd
}

// NewRootCmd builds the easysql command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "easysql",
		Short:        "CRUD helper for SQLite and MySQL",
		SilenceUsage: true,
	}
	g := &db.Global{}
	g.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(db.Commands(g)...)
	rootCmd.AddCommand(newConfigCmd(), newVersionCmd())
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
