package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/astrocyte-mcp/internal/config"
	"github.com/ironsheep/astrocyte-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("astrocyte-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("astrocyte-mcp - MCP server for counting astrocytes in micrographs")
			fmt.Println()
			fmt.Println("Usage: astrocyte-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug         Log level: trace, debug, info, warn, error\n", config.EnvLogLevel)
			fmt.Printf("  %s=/path/bands.yaml  Classification band table\n", config.EnvBands)
			fmt.Printf("  %s=200       Hysteresis hop bound, 0 for unbounded\n", config.EnvMaxLinkHops)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Logs go to stderr; stdout is for MCP protocol
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log = log.Level(cfg.LogLevel)

	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Str("bands", cfg.BandsPath).
		Int("max_link_hops", cfg.MaxLinkHops).
		Msg("astrocyte MCP server starting")

	srv := server.NewWithConfig(cfg, log)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
