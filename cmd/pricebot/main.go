// Package main is the pricebot CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tallerlink/pricebot/internal/catalog"
	"github.com/tallerlink/pricebot/internal/config"
	"github.com/tallerlink/pricebot/internal/embedding"
	"github.com/tallerlink/pricebot/internal/keyword"
	"github.com/tallerlink/pricebot/internal/matcher"
	"github.com/tallerlink/pricebot/internal/models"
	"github.com/tallerlink/pricebot/internal/server"
	"github.com/tallerlink/pricebot/internal/watcher"
	"github.com/tallerlink/pricebot/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/pricebot/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "pricebot server" from the project dir uses the
// project's config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// .env is optional; it carries EMBEDDING_API_KEY in development.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "build":
		runBuild()
	case "search":
		runSearch()
	case "qualities":
		runQualities()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("pricebot version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if err := components.rebuild(context.Background(), cfg, logger); err != nil {
		logger.Fatal("Initial build failed", zap.Error(err))
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Catalog.Watch {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		w := watcher.New(cfg.Catalog.Path, func(path string) {
			logger.Info("price list changed, rebuilding", zap.String("path", path))
			if err := components.rebuild(context.Background(), cfg, logger); err != nil {
				logger.Warn("rebuild after change failed", zap.Error(err))
			}
		}, watchOpts...)
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
	}

	srv := server.NewServer(components.Engine, components.CatalogIndex, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if err := components.rebuild(context.Background(), cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}
	stats := components.Engine.Stats()
	fmt.Printf("items:     %d\n", stats.Items)
	fmt.Printf("cached:    %d\n", stats.Cached)
	fmt.Printf("generated: %d\n", stats.Generated)
	fmt.Printf("failed:    %d\n", stats.Failed)
	fmt.Printf("state:     %s\n", components.Engine.State())
}

// buildQuery joins all positional args with spaces so multi-word queries work
// the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Query   string                `json:"query"`
	Results []*models.MatchResult `json:"results"`
	Count   int                   `json:"count"`
}

func runSearch() {
	searchArgs := argsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = build locally and search in-process)")
	limit := fs.Int("limit", 0, "number of results (0 = config default)")
	relevant := fs.Bool("relevant", false, "skip exact-model refinement (raw relevance list)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: pricebot search [flags] <query>")
		os.Exit(1)
	}
	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: pricebot search [flags] <query>")
		os.Exit(1)
	}

	var resp *searchResponse
	if *serverURL != "" {
		var err error
		resp, err = searchViaHTTP(*serverURL, &searchRequest{Query: queryStr, Limit: *limit}, *relevant)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()

		components, err := initializeComponents(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize components", zap.Error(err))
		}
		defer components.Close()
		if err := components.rebuild(context.Background(), cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
			os.Exit(1)
		}

		var results []*models.MatchResult
		if *relevant {
			results, err = components.Engine.FindRelevantProducts(context.Background(), queryStr, *limit)
		} else {
			results, err = components.Engine.SearchProducts(context.Background(), queryStr, *limit)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		resp = &searchResponse{Query: queryStr, Results: results, Count: len(results)}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if resp.Count == 0 {
			fmt.Println("No matches.")
			return
		}
		for i, r := range resp.Results {
			price := "-"
			if r.Item.Price != nil {
				price = fmt.Sprintf("%.2f", *r.Item.Price)
			}
			marker := ""
			if r.IsApproximate {
				marker = fmt.Sprintf("  (closest to %q)", r.ExactModelRequested)
			}
			fmt.Printf("%2d. %-50s %10s  score=%.3f%s\n", i+1, utils.Truncate(r.Item.RawName, 50), price, r.Score, marker)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, req *searchRequest, relevant bool) (*searchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	endpoint := "/api/v1/search"
	if relevant {
		endpoint = "/api/v1/relevant"
	}
	resp, err := http.Post(serverURL+endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func runQualities() {
	fs := flag.NewFlagSet("qualities", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = build locally)")
	service := fs.String("service", "pantalla", "service type (pantalla, bateria, ...)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: pricebot qualities [flags] <device model>")
		os.Exit(1)
	}
	model := buildQuery(fs.Args())

	var groups []*models.QualityGroup
	if *serverURL != "" {
		u := fmt.Sprintf("%s/api/v1/qualities?model=%s&service=%s",
			*serverURL, url.QueryEscape(model), url.QueryEscape(*service))
		resp, err := http.Get(u)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Groups []*models.QualityGroup `json:"groups"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
		groups = out.Groups
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()

		components, err := initializeComponents(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize components", zap.Error(err))
		}
		defer components.Close()
		if err := components.rebuild(context.Background(), cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
			os.Exit(1)
		}
		groups, err = components.Engine.FindAllQualityOptions(context.Background(), model, *service)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Lookup failed: %v\n", err)
			os.Exit(1)
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(groups); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if len(groups) == 0 {
			fmt.Println("No quality options found.")
			return
		}
		for _, g := range groups {
			fmt.Printf("%s / %s (%s)\n", g.DeviceModel, g.ServiceType, g.Brand)
			for _, opt := range g.Options {
				price := "-"
				if opt.Price != nil {
					price = fmt.Sprintf("%.2f", *opt.Price)
				}
				fmt.Printf("  %-12s %10s  %s\n", opt.QualityTier, price, opt.RawName)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	State           string                 `json:"state"`
	Items           int                    `json:"items"`
	VectorIndexSize int                    `json:"vector_index_size"`
	LastBuild       *matcher.BuildStats    `json:"last_build,omitempty"`
	Config          map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("state:              %s\n", status.State)
		fmt.Printf("items:              %d\n", status.Items)
		fmt.Printf("vector_index_size:  %d\n", status.VectorIndexSize)
		if status.LastBuild != nil {
			fmt.Printf("last_build:         cached=%d generated=%d failed=%d\n",
				status.LastBuild.Cached, status.LastBuild.Generated, status.LastBuild.Failed)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Store        *embedding.Store
	Embedder     embedding.Embedder
	Engine       *matcher.Engine
	CatalogIndex *keyword.CatalogIndex
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.CatalogIndex != nil {
		_ = c.CatalogIndex.Close()
	}
}

// rebuild loads the price list and rebuilds both the matching engine and the
// bleve catalog index from it.
func (c *Components) rebuild(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	items, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load price list: %w", err)
	}
	if err := c.Engine.Build(ctx, items); err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	if c.CatalogIndex != nil {
		if err := c.CatalogIndex.Rebuild(ctx, items); err != nil {
			logger.Warn("catalog index rebuild failed", zap.Error(err))
		}
	}
	return nil
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	var store *embedding.Store
	if cfg.Storage.VectorCachePath != "" {
		var err error
		store, err = embedding.NewStore(cfg.Storage.VectorCachePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vector cache: %w", err)
		}
	}

	var embedder embedding.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder = embedding.NewHTTPEmbedder(&cfg.Embedding)
	} else {
		logger.Warn("no embedding API key configured, using mock embedder")
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}

	engineOpts := []matcher.Option{matcher.WithLogger(logger)}
	if store != nil {
		engineOpts = append(engineOpts, matcher.WithStore(store))
	}
	engine := matcher.NewEngine(embedder, &cfg.Matching, &cfg.Embedding, engineOpts...)

	catalogIndex, err := keyword.NewCatalogIndex(cfg.Storage.KeywordIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog index: %w", err)
	}

	return &Components{
		Store:        store,
		Embedder:     embedder,
		Engine:       engine,
		CatalogIndex: catalogIndex,
	}, nil
}

func printUsage() {
	fmt.Println(`pricebot - repair price list matching engine

Usage:
  pricebot server [flags]              Start the HTTP API server
  pricebot build [flags]               Load the price list and build the index
  pricebot search [flags] <query>      Match products for a customer query
  pricebot qualities [flags] <model>   List quality tiers for a device/service
  pricebot status [flags]              Show engine status from a running server
  pricebot version                     Show version
  pricebot help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/pricebot/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (for in-process mode)
  --server string    Server URL (empty = build locally and search in-process)
  --limit int        Number of results (0 = config default)
  --relevant         Skip exact-model refinement (raw relevance list)
  --output string    Output format: text or json (default: text)

Qualities Flags:
  --config string    Config file path (for in-process mode)
  --server string    Server URL (empty = build locally)
  --service string   Service type (default: pantalla)
  --output string    Output format: text or json (default: text)

Status Flags:
  --server string    Server URL (default: http://localhost:8080)
  --output string    Output format: text or json (default: text)

Examples:
  pricebot server
  pricebot build
  pricebot search "pantalla iphone 14 pro"
  pricebot search --server http://localhost:8080 "cambio de bateria s23"
  pricebot qualities --service pantalla "iphone 14"
  pricebot status --output json`)
}
