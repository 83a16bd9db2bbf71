package write

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"k8s.io/utils/ptr"

	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/workspace"
	"github.com/zdevops/zdevops/pkg/zosmf"
	"github.com/zdevops/zdevops/pkg/zosmf/memclient"
)

func startAgent(t *testing.T, v *viper.Viper, fs afero.Fs, svc *memclient.Service) *Agent {
	t.Helper()
	var agent *Agent
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Provide(
			func() logging.Interface { return logging.Discard() },
			func() *viper.Viper { return v },
			func() afero.Fs { return fs },
			func() (zosmf.Connection, error) { return zosmf.ParseConnection("mem://test", "", "") },
			zosmf.NewFactory,
		),
		workspace.Module,
		fx.Invoke(func(f *zosmf.Factory) { memclient.Register(f, svc) }),
		Module,
		fx.Populate(&agent),
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)
	require.NotNil(t, agent)
	return agent
}

func TestModule(t *testing.T) {
	assert.NotNil(t, Module)
}

func TestAgent_WorkspaceFileToMember(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/ws/jcl/build.jcl", []byte("//BUILD JOB\r\n//STEP EXEC PGM=IEFBR14\r\n"), 0o644))

	svc := memclient.New()
	svc.AddDataset(zosmf.DatasetInfo{Name: "HLQ.JCL", Organization: zosmf.OrgPartitioned, RecordLength: ptr.To(80)}, nil)

	v := viper.New()
	v.Set("workspace", "/ws")
	v.Set("target", "member")
	v.Set("dsn", "HLQ.JCL")
	v.Set("member", "BUILD")
	v.Set("source.kind", "workspace")
	v.Set("source.value", "jcl/build.jcl")

	agent := startAgent(t, v, fs, svc)
	require.NoError(t, agent.Start(context.Background()))

	content, ok := svc.Content("HLQ.JCL", "BUILD")
	require.True(t, ok)
	assert.Equal(t, "//BUILD JOB\n//STEP EXEC PGM=IEFBR14\n", content)
}

func TestAgent_TextToFile(t *testing.T) {
	svc := memclient.New()
	v := viper.New()
	v.Set("workspace", "/ws")
	v.Set("target", "file")
	v.Set("path", "/u/ibmuser/hello.txt")
	v.Set("source.kind", "text")
	v.Set("source.value", "hello\r\n")

	agent := startAgent(t, v, afero.NewMemMapFs(), svc)
	require.NoError(t, agent.Start(context.Background()))

	f, ok := svc.File("/u/ibmuser/hello.txt")
	require.True(t, ok)
	assert.Equal(t, "hello\r\n", string(f.Data))
	assert.False(t, f.Binary)
}

func TestAgent_RejectedWriteFails(t *testing.T) {
	svc := memclient.New()
	svc.AddDataset(zosmf.DatasetInfo{Name: "HLQ.CARDS", Organization: zosmf.OrgSequential, RecordLength: ptr.To(4)}, nil)
	v := viper.New()
	v.Set("workspace", "/ws")
	v.Set("dsn", "HLQ.CARDS")
	v.Set("source.kind", "text")
	v.Set("source.value", "too long")

	agent := startAgent(t, v, afero.NewMemMapFs(), svc)
	err := agent.Start(context.Background())
	assert.ErrorIs(t, err, ErrLinesTooLong)
	assert.Empty(t, svc.CallsOf("write"))
}

func TestAgent_MissingSourceFile(t *testing.T) {
	v := viper.New()
	v.Set("workspace", "/ws")
	v.Set("dsn", "HLQ.DATA")
	v.Set("source.value", "nope.txt")

	svc := memclient.New()
	agent := startAgent(t, v, afero.NewMemMapFs(), svc)
	assert.Error(t, agent.Start(context.Background()))
	assert.Empty(t, svc.Calls())
}
