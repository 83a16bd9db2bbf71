package zosmf

import (
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Viper keys of the connection section.
const (
	ConnectionURLKey      = "connection.url"
	ConnectionUserKey     = "connection.user"
	ConnectionPasswordKey = "connection.password"
)

// Module provides the client Factory and the configured Connection.
var Module = fx.Provide(
	NewFactory,
	func(v *viper.Viper) (Connection, error) {
		return ParseConnection(
			v.GetString(ConnectionURLKey),
			v.GetString(ConnectionUserKey),
			v.GetString(ConnectionPasswordKey),
		)
	},
)
