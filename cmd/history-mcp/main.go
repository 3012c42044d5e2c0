package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/S2thend/cursor-history-mcp/internal/config"
	"github.com/S2thend/cursor-history-mcp/internal/mcpserver"
	"github.com/S2thend/cursor-history-mcp/pkg/history/sqlite"
)

func main() {
	var (
		configPath = flag.String("config", "", "Server config YAML (optional)")
		dbPath     = flag.String("db", "", "Database path (overrides config)")
		httpAddr   = flag.String("http", "", "Serve over HTTP on this address instead of stdio")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer store.Close()

	engine, err := cfg.BuildEngine()
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}

	server, err := mcpserver.NewServer(&mcpserver.Deps{
		Store:  store,
		Engine: engine,
		Config: cfg,
	})
	if err != nil {
		log.Fatalf("create server: %v", err)
	}

	// Stdio mode keeps stdout for JSON-RPC; log already writes to stderr.
	if *httpAddr != "" {
		log.Printf("history MCP server listening on %s", *httpAddr)
		if err := server.RunHTTP(ctx, *httpAddr); err != nil {
			log.Fatalf("serve http: %v", err)
		}
		return
	}

	if err := server.Run(ctx); err != nil {
		log.Fatalf("serve stdio: %v", err)
	}
}
