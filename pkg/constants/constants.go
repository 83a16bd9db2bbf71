package constants

import (
	"strings"
)

// Agent constants
const (
	AgentName    = "zdevops-agent"
	AgentAppName = "ZDEVOPS_AGENT"
)

// Agent environment variables
var (
	ConnectionURLEnvVarKey      = EnvVarKey("connection.url")
	ConnectionUserEnvVarKey     = EnvVarKey("connection.user")
	ConnectionPasswordEnvVarKey = EnvVarKey("connection.password")
	WorkspaceEnvVarKey          = EnvVarKey("workspace")
)

// Step id markers, one per agent
const (
	SubmitJobStepMarker = "SJ"
	DatasetsStepMarker  = "DS"
	WriteStepMarker     = "WR"
)

// EnvVarKey is the environment variable that overrides a config key:
// "connection.url" is read from ZDEVOPS_AGENT_CONNECTION_URL.
func EnvVarKey(configKey string) string {
	return AgentAppName + "_" + strings.ToUpper(strings.ReplaceAll(configKey, ".", "_"))
}
