package cli

import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shiftmap/internal/adapters/driving/mcp"
)

var (
	mcpPort int
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the engine to AI assistants",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the engine over the Model Context Protocol",
	Long: `Serve categorisation, suggestions and mapping operations as MCP tools,
and the inventory snapshot and categories as MCP resources.

Without --port the server speaks JSON-RPC on stdin and stdout, which is
what assistants that launch shiftmap as a subprocess expect:

  {"mcpServers": {"shiftmap": {"command": "shiftmap", "args": ["mcp", "serve"]}}}

With --port it serves the streamable HTTP transport instead:

  shiftmap mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "127.0.0.1", "interface to bind in HTTP mode")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Category:   categoryService,
		Mapping:    mappingService,
		Suggestion: suggestionService,
		Bulk:       bulkService,
		Inventory:  inventoryService,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if mcpPort <= 0 {
		return server.Run(ctx)
	}
	addr := net.JoinHostPort(mcpHost, strconv.Itoa(mcpPort))
	cmd.PrintErrf("MCP server listening on http://%s\n", addr)
	return server.RunHTTP(ctx, addr)
}
