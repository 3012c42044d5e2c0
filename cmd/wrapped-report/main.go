package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/S2thend/cursor-history-mcp/internal/config"
	"github.com/S2thend/cursor-history-mcp/internal/llm"
	"github.com/S2thend/cursor-history-mcp/internal/transcript"
	"github.com/S2thend/cursor-history-mcp/pkg/history"
	"github.com/S2thend/cursor-history-mcp/pkg/history/sqlite"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped"
)

func main() {
	var (
		dbPath     = flag.String("db", "", "Database path (this or --data required)")
		dataPath   = flag.String("data", "", "JSONL chat export (this or --db required)")
		configPath = flag.String("config", "", "Server config YAML (optional)")
		year       = flag.Int("year", 0, "Calendar year to summarize (required)")
		workspace  = flag.String("workspace", "", "Only summarize this workspace")
		language   = flag.String("lang", "", "Report language, en or es (overrides config)")
		seed       = flag.Int64("seed", 0, "Clustering seed for reproducible runs")
		llmBase    = flag.String("llm-base", "", "Optional: OpenAI-compatible base URL for narration")
		llmModel   = flag.String("llm-model", "", "Optional: LLM model name for narration")
		llmAPIKey  = flag.String("llm-api-key", "", "Optional: API key for narration endpoint")
	)
	flag.Parse()

	if *year == 0 {
		log.Fatal("--year required")
	}
	if *dbPath == "" && *dataPath == "" {
		log.Fatal("--db or --data required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	var records []wrapped.RawRecord
	if *dataPath != "" {
		records, err = recordsFromExport(*dataPath, *workspace)
	} else {
		records, err = recordsFromStore(ctx, cfg, *dbPath, *year, *workspace)
	}
	if err != nil {
		log.Fatalf("load records: %v", err)
	}

	engine, err := cfg.BuildEngine()
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}

	engineCfg := cfg.EngineConfig(*year)
	engineCfg.Workspace = *workspace
	engineCfg.Seed = *seed
	if *language != "" {
		engineCfg.Language = *language
	}

	summary, err := engine.Generate(engineCfg, records)
	if err != nil {
		log.Fatalf("generate summary: %v", err)
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatalf("marshal summary: %v", err)
	}
	fmt.Println(string(out))

	if *llmBase == "" || *llmModel == "" {
		return
	}

	client := &llm.Client{
		BaseURL: *llmBase,
		Model:   *llmModel,
		APIKey:  *llmAPIKey,
	}
	narrative, err := client.Narrate(ctx, summary, engineCfg.Language)
	if err != nil {
		log.Fatalf("llm narrate: %v", err)
	}
	fmt.Println("Narrative:")
	fmt.Println(narrative)
}

// recordsFromStore pages the year's user questions out of the SQLite store.
func recordsFromStore(ctx context.Context, cfg config.ServerConfig, dbPath string, year int, workspace string) ([]wrapped.RawRecord, error) {
	store, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	collector := history.Collector{Store: store, MaxRecords: cfg.MaxRecords}
	records, capped, err := collector.CollectYear(ctx, year, workspace)
	if err != nil {
		return nil, err
	}
	if capped {
		log.Printf("Warning: record cap reached, summarizing the first %d questions", collector.Cap())
	}
	return records, nil
}

// recordsFromExport reads user questions straight out of a JSONL chat export,
// skipping the store entirely.
func recordsFromExport(dataPath, workspace string) ([]wrapped.RawRecord, error) {
	entries, err := transcript.LoadFromJSONL(dataPath)
	if err != nil {
		return nil, err
	}

	var records []wrapped.RawRecord
	for _, entry := range entries {
		if !strings.EqualFold(strings.TrimSpace(entry.Role), history.RoleUser) {
			continue
		}
		if workspace != "" && entry.Workspace != workspace {
			continue
		}
		records = append(records, wrapped.RawRecord{
			Text:      transcript.StripHTML(entry.Text),
			Timestamp: entry.Timestamp,
		})
	}
	return records, nil
}
