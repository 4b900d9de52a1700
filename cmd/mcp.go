package cmd

import (
	"github.com/BrandRap-LLC/scorecards-sub002/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Scorecards MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents format metrics, color values and render heatmap grids via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdout carries the protocol, so setup must not print to it.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
