package workspace

import (
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/zdevops/zdevops/pkg/logging"
)

// ConfigKey holds the workspace directory; it defaults to the working directory.
const ConfigKey = "workspace"

// FsModule provides the host filesystem.
var FsModule fx.Option = fx.Provide(func() afero.Fs { return afero.NewOsFs() })

// Module provides the workspace configured under ConfigKey.
var Module fx.Option = fx.Provide(
	func(fs afero.Fs, v *viper.Viper, log logging.Interface) (*Workspace, error) {
		root := v.GetString(ConfigKey)
		if root == "" {
			root = "."
		}
		return New(fs, root, log)
	},
)
