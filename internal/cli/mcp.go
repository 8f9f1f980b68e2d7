package cli

import (
	"github.com/spf13/cobra"

	"github.com/codeatlas/codeatlas/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Mcp exposes the analysis pipeline as MCP tools (analyze_repo,
file_elements, file_dependencies, find_cycles) over stdio, for use by
MCP-capable clients.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := buildAnalyzer(cfg, nil)
	if err != nil {
		return err
	}

	return mcp.NewServer(cfg, a).Serve(cmd.Context())
}
