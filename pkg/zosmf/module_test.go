package zosmf

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/zdevops/zdevops/pkg/logging"
)

func TestModule(t *testing.T) {
	v := viper.New()
	v.Set(ConnectionURLKey, "https://mainframe:10443")
	v.Set(ConnectionUserKey, "ibmuser")
	v.Set(ConnectionPasswordKey, "secret")

	var (
		conn    Connection
		factory *Factory
	)
	app := fxtest.New(t,
		fx.Supply(v),
		fx.Provide(func() logging.Interface { return logging.Discard() }),
		Module,
		fx.Populate(&conn, &factory),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.NotNil(t, factory)
	assert.Equal(t, "ibmuser@https://mainframe:10443", conn.String())
}

func TestModule_InvalidConnection(t *testing.T) {
	v := viper.New()
	v.Set(ConnectionURLKey, "ftp://mainframe")

	app := fx.New(
		fx.NopLogger,
		fx.Supply(v),
		fx.Provide(func() logging.Interface { return logging.Discard() }),
		Module,
		fx.Invoke(func(Connection) {}),
	)
	assert.ErrorContains(t, app.Err(), "invalid connection")
}
