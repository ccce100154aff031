package cli

import (
	"fmt"
	"time"

	"github.com/kovtools/checkctl/internal/client"
	"github.com/kovtools/checkctl/internal/config"
	"github.com/kovtools/checkctl/internal/history"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type GlobalOptions struct {
	ConfigPath string
	ServerUrl  string
	Token      string

	PollInterval time.Duration
	HistoryDir   string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		ConfigPath: client.DefaultClientConfigPath(),
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config-path", o.ConfigPath, "Path to the client config file")
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the backend; overrides the config file")
	fs.StringVar(&o.Token, "token", o.Token, "Bearer token; overrides the config file")
}

// Complete resolves the connection settings: explicit flags win, then the
// client config file, then environment defaults.
func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	envCfg, err := config.New()
	if err != nil {
		return fmt.Errorf("reading environment config: %w", err)
	}

	if fileCfg, err := client.ParseConfigFile(o.ConfigPath); err == nil {
		if o.ServerUrl == "" {
			o.ServerUrl = fileCfg.Service.Server
		}
		if o.Token == "" {
			o.Token = fileCfg.Service.Token
		}
	}
	if o.ServerUrl == "" {
		o.ServerUrl = envCfg.Server
	}
	if o.Token == "" {
		o.Token = envCfg.Token
	}
	o.PollInterval = envCfg.PollInterval
	o.HistoryDir = envCfg.HistoryDir(o.ConfigPath)

	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	if o.ServerUrl == "" {
		return fmt.Errorf("no server configured: pass --server-url, set CHECKCTL_SERVER or run `checkctl login`")
	}
	return nil
}

func (o *GlobalOptions) Client() (client.Console, error) {
	cfg := client.NewDefault()
	cfg.Service = client.Service{
		Server: o.ServerUrl,
		Token:  o.Token,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return client.NewFromConfig(cfg)
}

func (o *GlobalOptions) History() *history.Store {
	return history.NewStore(o.HistoryDir)
}
