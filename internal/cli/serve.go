package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Serve starts an HTTP API exposing the analysis pipeline:

  POST /api/analyze   {"url": "..."} or {"text": "...", "title": "...", "source": "..."}
  GET  /api/health

The response is the same report JSON the analyze command writes.

Example:
  credence serve
  credence serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: config server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if err := resolveLLMKeys(cfg); err != nil {
		return err
	}

	p := pipeline.New(cfg)
	s := server.New(cfg, p)

	fmt.Fprintf(os.Stderr, "Serving analysis API on %s\n", cfg.Server.Addr)
	return s.Run()
}
