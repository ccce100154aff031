package cli

import (
	"context"
	"fmt"

	"github.com/kovtools/checkctl/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type LoginOptions struct {
	ConfigPath string
	ServerUrl  string
	Token      string
}

func DefaultLoginOptions() *LoginOptions {
	return &LoginOptions{
		ConfigPath: client.DefaultClientConfigPath(),
	}
}

func NewCmdLogin() *cobra.Command {
	o := DefaultLoginOptions()
	cmd := &cobra.Command{
		Use:          "login",
		Short:        "Store the backend address and token in the client config file",
		Example:      "login --server-url https://backend.example.com --token <token>",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *LoginOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config-path", o.ConfigPath, "Path to the client config file")
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the backend")
	fs.StringVar(&o.Token, "token", o.Token, "Bearer token")
}

func (o *LoginOptions) Validate(args []string) error {
	if o.ServerUrl == "" {
		return fmt.Errorf("--server-url is required")
	}
	return nil
}

func (o *LoginOptions) Run(ctx context.Context, args []string) error {
	if err := client.WriteConfig(o.ConfigPath, o.ServerUrl, o.Token); err != nil {
		return fmt.Errorf("writing client config: %w", err)
	}
	fmt.Printf("Configuration written to %s\n", o.ConfigPath)
	return nil
}
