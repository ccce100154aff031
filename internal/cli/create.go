package cli

import (
	"github.com/spf13/cobra"
)

func NewCmdCreate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a job",
	}
	cmd.AddCommand(NewCmdCreateCheck())
	cmd.AddCommand(NewCmdCreateVGC())
	return cmd
}
