package cmd

import (
	"time"

	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/zus-chat-assistant/pkg/config"
	logx "github.com/tanpawarit/zus-chat-assistant/pkg/logger"
)

type AppConfig struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8000"`
	ChatTimeout     time.Duration `envconfig:"CHAT_TIMEOUT" default:"20s"`
	SessionBackend  string        `envconfig:"SESSION_BACKEND" default:"memory"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

var envFile string

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "zus",
		Short:         "ZUS Coffee chat assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configx.SetEnvFile(envFile)
			logCfg, err := configx.New[logx.Config]("LOG")
			if err != nil {
				return err
			}
			logx.Init(*logCfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file")

	root.AddCommand(newServeCommand(), newIngestCommand())
	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}
