package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/knowledge-engine/textrep/internal/config"
)

// commandContext carries the persistent flags shared by subcommands.
type commandContext struct {
	configPath string
	verbose    bool
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		return config.LoadFile(c.configPath)
	}
	return config.Load(), nil
}

// logger writes to the command's stderr. Warnings surfaced in results are
// printed by the commands themselves, so only errors are logged unless
// verbose output was requested.
func (c *commandContext) logger(cmd *cobra.Command) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(cmd.ErrOrStderr())
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.ErrorLevel)
	if c.verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l.WithField("service", "textrep-cli")
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "textrep",
		Short:         "Term frequency and TF-IDF vectors for text",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newTermFrequencyCommand(ctx))
	rootCmd.AddCommand(newTFIDFCommand(ctx))

	return rootCmd
}
