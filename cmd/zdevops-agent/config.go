package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/zdevops/zdevops/pkg/configutils"
	"github.com/zdevops/zdevops/pkg/constants"
)

func configProvider(cli *cobra.Command) fx.Option {
	return configutils.ProvideViper(viper.New(), constants.AgentAppName, cli.Flags(), configFilePath)
}
