package main

import (
	"os"

	"github.com/kovtools/checkctl/internal/cli"
	"github.com/kovtools/checkctl/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	logLevel := os.Getenv("CHECKCTL_LOG_LEVEL")
	logger := log.InitLog(log.AtomicLevelFromString(logLevel))
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	command := NewCheckCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewCheckCtlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkctl [flags] [options]",
		Short: "checkctl controls compliance checks and VGC lists.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdLogin())
	cmd.AddCommand(cli.NewCmdUpload())
	cmd.AddCommand(cli.NewCmdCreate())
	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdWatch())
	cmd.AddCommand(cli.NewCmdExport())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
