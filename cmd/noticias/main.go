package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mhxz759/noticias-br/internal/cache"
	"github.com/mhxz759/noticias-br/internal/collect"
	"github.com/mhxz759/noticias-br/internal/config"
	"github.com/mhxz759/noticias-br/internal/enrich"
	"github.com/mhxz759/noticias-br/internal/query"
	"github.com/mhxz759/noticias-br/internal/refresh"
	"github.com/mhxz759/noticias-br/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "noticias",
	Short:   "Agregador de notícias brasileiras",
	Long:    "Noticias collects Brazilian news from RSS feeds and NewsAPI, categorizes them and serves the merged result over a JSON API.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sourcesCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("noticias", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/noticias/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure feeds and the NewsAPI key env var.")
		return nil
	},
}

// --- refresh command ---

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one refresh cycle and print per-source counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		enricher := enrich.New(0)
		collector := collect.NewCollector(cfg, enricher)

		fmt.Println("Fetching articles from all sources...")
		_, result := collector.Collect(cmd.Context())

		fmt.Println("\nCycle complete:")
		fmt.Printf("  Total articles: %d\n", result.Total)

		if len(result.Sources) > 0 {
			fmt.Println("\nArticles by source:")
			// Sort sources by count descending
			type kv struct {
				key string
				val int
			}
			var sorted []kv
			for k, v := range result.Sources {
				sorted = append(sorted, kv{k, v})
			}
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].val > sorted[j].val })
			for _, s := range sorted {
				fmt.Printf("  %s: %d\n", s.key, s.val)
			}
		}
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the news API server with background refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := cache.NewStore()
		enricher := enrich.New(0)
		collector := collect.NewCollector(cfg, enricher)
		scheduler := refresh.NewScheduler(collector, store, cfg.Refresh)
		queries := query.NewService(store, scheduler)

		go scheduler.Run(ctx)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://%s:%d\n", cfg.Server.Host, port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(ctx, queries, enricher, cfg.Server.Host, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}

// --- sources command ---

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured news sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Feeds:")
		for _, f := range cfg.Sources.Feeds {
			fmt.Printf("  [%s] %s\n        %s\n", f.Key, f.Name, f.RSSURL)
		}

		api := cfg.Sources.NewsAPI
		state := "disabled"
		if api.Enabled {
			state = "enabled"
			if os.Getenv(api.APIKeyEnv) == "" {
				state = fmt.Sprintf("enabled, but %s is not set", api.APIKeyEnv)
			}
		}
		fmt.Printf("\nNewsAPI: %s\n", state)
		return nil
	},
}
