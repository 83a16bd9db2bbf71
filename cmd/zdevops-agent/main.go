package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zdevops/zdevops/pkg/constants"
	"github.com/zdevops/zdevops/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   constants.AgentName,
	Short: "Run z/OS DevOps pipeline steps",
	Long: fmt.Sprintf(`zdevops-agent runs one pipeline step against a z/OSMF service: submit a job and
collect its log, manage datasets, or write content to datasets and z/OS UNIX files.

A config file (--config) is required. Its service and credential values can be
overridden with %s, %s and %s.
Logs and downloads go to the workspace directory (%s).`,
		constants.ConnectionURLEnvVarKey, constants.ConnectionUserEnvVarKey,
		constants.ConnectionPasswordEnvVarKey, constants.WorkspaceEnvVarKey),
	Version: version.String(),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(CreateAgentCommand(NewSubmitJobAgent()))
	rootCmd.AddCommand(CreateAgentCommand(NewDatasetsAgent()))
	rootCmd.AddCommand(CreateAgentCommand(NewWriteAgent()))
}
