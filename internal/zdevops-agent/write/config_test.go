package write

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdevops/zdevops/pkg/logging"
)

func TestNewConfig(t *testing.T) {
	config, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, TargetDataset, config.Target)
	assert.Equal(t, SourceWorkspace, config.Source.Kind)

	_, err = NewConfig(WithLogger(nil))
	assert.ErrorContains(t, err, "logger cannot be nil")
}

func TestWithViper(t *testing.T) {
	v := viper.New()
	v.Set("target", "member")
	v.Set("dsn", "HLQ.JCL")
	v.Set("member", "BUILD")
	v.Set("source.kind", "text")
	v.Set("source.value", "//BUILD JOB")

	config, err := NewConfig(WithViper(v), WithLogger(logging.Discard()))
	require.NoError(t, err)
	assert.Equal(t, TargetMember, config.Target)
	assert.Equal(t, "HLQ.JCL", config.Dataset)
	assert.Equal(t, "BUILD", config.Member)
	assert.Equal(t, SourceConfig{Kind: SourceText, Value: "//BUILD JOB"}, config.Source)
	assert.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		errorMsg string
	}{
		{
			name:   "dataset from workspace",
			config: Config{Target: TargetDataset, Dataset: "HLQ.DATA", Source: SourceConfig{Kind: SourceWorkspace, Value: "a.txt"}},
		},
		{
			name:   "file from text",
			config: Config{Target: TargetFile, Path: "/u/a", Source: SourceConfig{Kind: SourceText}},
		},
		{
			name:     "unknown target",
			config:   Config{Target: "tape", Source: SourceConfig{Kind: SourceText}},
			errorMsg: "Target",
		},
		{
			name:     "dataset missing",
			config:   Config{Target: TargetDataset, Source: SourceConfig{Kind: SourceText}},
			errorMsg: "dsn is required to write to a dataset",
		},
		{
			name:     "member missing",
			config:   Config{Target: TargetMember, Dataset: "HLQ.LIB", Source: SourceConfig{Kind: SourceText}},
			errorMsg: "member is required",
		},
		{
			name:     "file path missing",
			config:   Config{Target: TargetFile, Source: SourceConfig{Kind: SourceText}},
			errorMsg: "path is required",
		},
		{
			name:     "file source without path",
			config:   Config{Target: TargetDataset, Dataset: "HLQ.DATA", Source: SourceConfig{Kind: SourceLocal}},
			errorMsg: "local source needs a file path",
		},
		{
			name:     "unknown source",
			config:   Config{Target: TargetDataset, Dataset: "HLQ.DATA", Source: SourceConfig{Kind: "choose"}},
			errorMsg: "Kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errorMsg)
		})
	}
}
