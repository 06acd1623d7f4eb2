package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/packview/packview/internal/archive"
	"github.com/packview/packview/internal/browse"
	"github.com/packview/packview/internal/config"
	"github.com/packview/packview/internal/domain"
	"github.com/packview/packview/internal/fetch"
	"github.com/packview/packview/internal/httpcache"
	"github.com/packview/packview/internal/imaging"
	"github.com/packview/packview/internal/log"
	"github.com/packview/packview/internal/spider"
	"github.com/packview/packview/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	var clearCache bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&clearCache, "clear-cache", false, "remove the on-disk response cache and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("packview %s\n", Version)
		return
	}

	if err := run(clearCache); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(clearCache bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if clearCache {
		if err := config.ClearCache(cfg); err != nil {
			return err
		}
		fmt.Println("cache cleared")
		return nil
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting packview", "version", Version)

	ep := archive.Endpoints{API: cfg.Archive.APIURL, Web: cfg.Archive.WebURL}
	if ep.API == "" || ep.Web == "" {
		ep = archive.DefaultEndpoints()
	}

	transport, err := httpcache.New(cfg.Fetch.CacheDir, nil, logger)
	if err != nil {
		return fmt.Errorf("failed to open response cache: %w", err)
	}
	defer transport.Close()

	queue := fetch.NewQueue()
	pool := fetch.NewPool(queue, transport, cfg.Fetch.Workers, logger)
	pool.Start()
	defer pool.Stop()

	// The editor shell hooks receive downloaded art. Until the canvas editor
	// lands, opened files are logged and announced in the status bar. The
	// program pointer is nil until tea.NewProgram below; opens only happen
	// once it runs.
	var program *tea.Program
	notifyOpened := func(name string) {
		if program != nil {
			program.Send(tui.FileOpenedMsg{Name: name})
		}
	}
	callbacks := domain.Callbacks{
		CreateCanvas: func(data []byte, sourceURL string) {
			logger.Info("opened canvas file", "url", sourceURL, "bytes", len(data))
			notifyOpened(path.Base(sourceURL))
		},
		CreateImage: func(img domain.LoadedImage) {
			logger.Info("opened image", "url", img.Path, "width", img.Width, "height", img.Height)
			notifyOpened(path.Base(img.Path))
		},
	}

	session := browse.NewSession(queue, ep, imaging.Decoder{}, callbacks, logger)
	session.SetPageSizes(cfg.Browse.PageSize, cfg.Browse.RootPageSize)
	session.SetYearIncludeMags(cfg.Browse.IncludeMags)

	spdr := spider.New(queue, ep, logger)
	session.SpiderResult = spdr.OnResult
	spdr.SetEnabled(cfg.Spider.Enabled)

	model := tui.New(session, spdr, cfg, logger)

	program = tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := program.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
