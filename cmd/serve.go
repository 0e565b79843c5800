package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/droid-cli/internal/logger"
	"github.com/mj1618/droid-cli/internal/server"
	"github.com/mj1618/droid-cli/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing droid-cli tools",
	Long: `Start a Model Context Protocol (MCP) server exposing extract, snapshot and
diff as tools. Extracted snapshots are kept in the configured store (memory
or redis) so agents can compare screens across calls.

Supported transports:
  stdio             Standard I/O (default, for local MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

The extract tool's path argument reads dump files on this machine. Over
streamable-http it is disabled unless --root (or server.path_roots in the
config) names the directories it may read from; with roots set, paths
outside them are refused on every transport.

Examples:
  droid-cli serve
  droid-cli serve --transport streamable-http --port 8080 --root /srv/dumps
  DROID_STORE_DRIVER=redis DROID_REDIS_ADDR=redis:6379 droid-cli serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", server.TransportStdio, "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Duration("ttl", 0, "Snapshot retention (default from config)")
	serveCmd.Flags().StringSlice("root", nil, "Directory the extract tool may read dumps from (repeatable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	roots, _ := cmd.Flags().GetStringSlice("root")
	if len(roots) == 0 {
		roots = appConfig.Server.PathRoots
	}

	storeCfg := appConfig.Store
	if ttl > 0 {
		storeCfg.TTL = ttl
	}
	st, err := openStore(cmd.Context(), storeCfg)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer st.Close()

	srv := server.New(newExtractor("extract"), st, logger.Named("mcp"), version.Version,
		server.WithPathRoots(roots...))
	return srv.Serve(transport, port)
}
