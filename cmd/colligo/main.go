// -----------------------------------------------------------------------
// Last Modified: Friday, 8th November 2025 4:00:00 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/app"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	dataDir      = flag.String("data-dir", "", "Data directory (overrides config)")
	logLevel     = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	chunkSize    = flag.Int("chunk-size", 0, "Chunk size in characters (overrides config)")
	chunkOverlap = flag.Int("chunk-overlap", 0, "Chunk overlap in characters (overrides config)")
	temperature  = flag.Float64("temperature", -1, "Completion temperature (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	// Parse command-line flags
	flag.Parse()

	// Handle version flag
	if *showVersion || *showVersionV {
		fmt.Printf("Colligo version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("colligo.toml"); err == nil {
			configFiles = append(configFiles, "colligo.toml")
		} else if _, err := os.Stat("deployments/local/colligo.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/colligo.toml")
		}
	}

	// 1. Load configuration (default -> file1 -> file2 -> ... -> env -> CLI)
	// Later config files override earlier ones
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	// 2. Apply command-line flag overrides (highest priority)
	common.ApplyFlagOverrides(config, common.FlagOverrides{
		DataDir:      *dataDir,
		LogLevel:     *logLevel,
		ChunkSize:    *chunkSize,
		ChunkOverlap: *chunkOverlap,
		Temperature:  *temperature,
	})

	if err := config.Validate(); err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	// 3. Initialize logger with final configuration
	logger = common.InitLogger(config)

	// 4. Print banner
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("data_dir", config.Storage.DataDir).
		Str("log_level", config.Logging.Level).
		Msg("Application configuration loaded")

	// Initialize application
	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	// Cancel outstanding work on interrupt; a second interrupt kills the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runConsole(ctx, application); err != nil {
		logger.Error().Err(err).Msg("Console session ended with error")
		os.Exit(1)
	}
}

// runConsole drives the interactive loop: slash commands manage the corpus,
// anything else is treated as a question.
func runConsole(ctx context.Context, application *app.App) error {
	fmt.Println()
	fmt.Println("Type a question, or /help for commands.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nGoodbye.")
			return nil
		default:
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runCommand(ctx, application, line); quit {
				fmt.Println("Goodbye.")
				return nil
			}
			continue
		}

		askQuestion(ctx, application, line)
	}
}

// runCommand dispatches a slash command. Returns true when the session
// should end.
func runCommand(ctx context.Context, application *app.App, line string) bool {
	fields := strings.Fields(line)
	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case "/quit", "/exit":
		return true
	case "/help":
		printHelp()
	case "/add":
		if len(args) == 0 {
			fmt.Println("Usage: /add <url> [url ...]")
			break
		}
		addSources(ctx, application, args)
	case "/sources":
		listSources(application)
	case "/images":
		listImages(application)
	case "/export":
		dir := "exports"
		if len(args) > 0 {
			dir = args[0]
		}
		exportSources(application, dir)
	case "/clear":
		clearAll(application)
	default:
		fmt.Printf("Unknown command %q. Type /help for commands.\n", command)
	}
	return false
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /add <url> [url ...]   Ingest websites (replaces the current corpus)")
	fmt.Println("  /sources               List ingested sources")
	fmt.Println("  /images                List downloaded images")
	fmt.Println("  /export [dir]          Export sources as markdown (default: exports/)")
	fmt.Println("  /clear                 Remove all ingested data")
	fmt.Println("  /quit                  Exit")
	fmt.Println("Anything else is asked as a question over the ingested sources.")
}

func addSources(ctx context.Context, application *app.App, urls []string) {
	fmt.Printf("Ingesting %d website(s)...\n", len(urls))

	progress := func(url string, position, total int, err error) {
		if err != nil {
			fmt.Printf("  [%d/%d] %s: FAILED (%v)\n", position, total, url, err)
			return
		}
		fmt.Printf("  [%d/%d] %s: ok\n", position, total, url)
	}

	failures, err := application.IngestService.ProcessBatch(ctx, urls, progress)
	if err != nil {
		fmt.Printf("Ingestion failed: %v\n", err)
		return
	}

	// Conversation context refers to the old corpus; start fresh.
	if application.ChatService != nil {
		application.ChatService.Reset()
	}

	fmt.Printf("Done: %d succeeded, %d failed.\n", len(urls)-len(failures), len(failures))
}

func listSources(application *app.App) {
	catalog, err := application.StorageManager.SourceStorage().ListSources()
	if err != nil {
		fmt.Printf("Failed to list sources: %v\n", err)
		return
	}
	if len(catalog) == 0 {
		fmt.Println("No sources ingested. Use /add <url> to get started.")
		return
	}

	for i, source := range catalog {
		if source.Status == models.SourceStatusFailed {
			fmt.Printf("%d. %s - FAILED: %s\n", i+1, source.URL, source.Error)
			continue
		}
		title := source.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%d. %s - %s (%d chunks, %d images)\n",
			i+1, source.URL, title, source.ChunkCount, len(source.Images))
	}
}

func listImages(application *app.App) {
	catalog, err := application.StorageManager.SourceStorage().ListSources()
	if err != nil {
		fmt.Printf("Failed to list sources: %v\n", err)
		return
	}

	total := 0
	for _, source := range catalog {
		for _, img := range source.Images {
			if img.LocalPath == "" {
				continue
			}
			fmt.Printf("  %s\n    %s\n", img.LocalPath, img.Describe(source.Domain))
			total++
		}
	}
	if total == 0 {
		fmt.Println("No images downloaded.")
		return
	}
	fmt.Printf("%d image(s) in %s\n", total, application.Config.Storage.ImageCacheDir)
}

func exportSources(application *app.App, dir string) {
	catalog, err := application.StorageManager.SourceStorage().ListSources()
	if err != nil {
		fmt.Printf("Failed to list sources: %v\n", err)
		return
	}

	exported := 0
	for _, source := range catalog {
		if source.Status == models.SourceStatusFailed {
			continue
		}
		path, err := application.ExportService.ExportMarkdown(source, dir)
		if err != nil {
			fmt.Printf("  %s: export failed (%v)\n", source.URL, err)
			continue
		}
		fmt.Printf("  %s -> %s\n", source.URL, path)
		exported++
	}
	if exported == 0 {
		fmt.Println("Nothing to export.")
		return
	}
	fmt.Printf("Exported %d source(s) to %s\n", exported, dir)
}

func clearAll(application *app.App) {
	if err := application.IngestService.ClearAll(); err != nil {
		fmt.Printf("Failed to clear data: %v\n", err)
		return
	}
	if application.ChatService != nil {
		application.ChatService.Reset()
	}
	fmt.Println("All ingested data removed.")
}

func askQuestion(ctx context.Context, application *app.App, question string) {
	if application.ChatService == nil {
		fmt.Println("No completion provider configured. Set GROQ_API_KEY, ANTHROPIC_API_KEY, or GEMINI_API_KEY.")
		return
	}

	started := time.Now()
	answer, err := application.ChatService.Ask(ctx, question)
	if err != nil {
		fmt.Printf("Failed to answer: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(answer.Sources, ", "))
	}
	if len(answer.Images) > 0 {
		fmt.Println("Related images:")
		for _, img := range answer.Images {
			fmt.Printf("  %s\n", img.LocalPath)
		}
	}
	fmt.Printf("\n(%.1fs)\n\n", time.Since(started).Seconds())
}
