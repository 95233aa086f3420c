// CLAUDE:SUMMARY CLI entry point for xpick: offline file picks, live browser picks, HTTP API and stdio MCP server.
// Command xpick generates XPath locator candidates for an element.
//
// Usage:
//
//	xpick -file page.html -target '//button[1]'     # offline pick
//	xpick -url https://example.com -target '//h1'    # live pick in Chrome
//	xpick -url https://example.com                   # right-click an element in a headful browser
//	xpick -serve                                     # HTTP API
//	xpick -mcp                                       # MCP server on stdio
//
// -copy n copies the n-th candidate (0-based) to the clipboard.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/xpick/dom/htmldom"
	"github.com/hazyhaar/xpick/idgen"
	"github.com/hazyhaar/xpick/internal/safe"
	"github.com/hazyhaar/xpick/locator"
	"github.com/hazyhaar/xpick/picker"
	"github.com/hazyhaar/xpick/server"
	"github.com/hazyhaar/xpick/sink"
)

var version = "dev"

type options struct {
	configPath string
	file       string
	target     string
	url        string
	serve      bool
	mcp        bool
	copyIndex  int
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "path to xpick.yaml config file")
	flag.StringVar(&o.file, "file", "", "HTML file to pick from (offline)")
	flag.StringVar(&o.target, "target", "", "XPath selecting the element to describe")
	flag.StringVar(&o.url, "url", "", "page to open in Chrome (live pick)")
	flag.BoolVar(&o.serve, "serve", false, "serve the HTTP API")
	flag.BoolVar(&o.mcp, "mcp", false, "serve MCP tools on stdio")
	flag.IntVar(&o.copyIndex, "copy", -1, "copy candidate n to the clipboard")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, o); err != nil {
		logger.Error("xpick: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, o options) error {
	cfg := &locator.FileConfig{}
	if o.configPath != "" {
		var err error
		if cfg, err = locator.LoadConfigFile(o.configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg.ApplyDefaults()
	}
	engine := locator.New(&cfg.Locator, locator.WithLogger(logger))

	switch {
	case o.mcp:
		return runMCP(ctx, logger, engine)
	case o.serve:
		return runServe(ctx, logger, engine, cfg.Server.Listen)
	case o.file != "":
		return runFile(ctx, logger, engine, cfg, o)
	case o.url != "":
		return runLive(ctx, logger, engine, cfg, o)
	}

	fmt.Fprintln(os.Stderr, "usage: xpick -file <html> -target <xpath> | -url <url> [-target <xpath>] | -serve | -mcp")
	os.Exit(2)
	return nil
}

func runFile(ctx context.Context, logger *slog.Logger, engine *locator.Engine, cfg *locator.FileConfig, o options) error {
	if o.target == "" {
		return errors.New("-file needs -target")
	}
	f, err := os.Open(o.file)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	data, err := safe.LimitedReadAll(f, safe.MaxDocument)
	if err != nil {
		return fmt.Errorf("read %s: %w", o.file, err)
	}
	doc, err := htmldom.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}
	el, err := htmldom.Query(doc, o.target)
	if err != nil {
		return err
	}

	return deliver(ctx, logger, cfg, o.copyIndex, sink.Pick{
		ID:         idgen.Pick(),
		PageURL:    "file://" + o.file,
		Tag:        el.Tag(),
		Candidates: engine.Generate(el),
		Selected:   o.copyIndex,
		Timestamp:  time.Now().UTC(),
	})
}

func runLive(ctx context.Context, logger *slog.Logger, engine *locator.Engine, cfg *locator.FileConfig, o options) error {
	if err := safe.ValidateURL(o.url, safe.PageSchemes...); err != nil {
		return err
	}
	bcfg, err := picker.ConfigFrom(cfg.Browser, logger)
	if err != nil {
		return err
	}
	if o.target == "" && bcfg.RemoteURL == "" {
		// Interactive picks need a visible window.
		bcfg.Level = picker.LevelHeadful
	}

	mgr := picker.NewManager(bcfg)
	if _, err := mgr.Start(ctx); err != nil {
		return err
	}
	defer mgr.Close()

	tab, err := picker.OpenTab(ctx, mgr, o.url)
	if err != nil {
		return err
	}
	defer tab.Close()

	if o.target != "" {
		if err := tab.ElementBySelector(ctx, o.target); err != nil {
			return err
		}
		pick, err := tab.Pick(ctx, engine, o.copyIndex)
		if err != nil {
			return err
		}
		return deliver(ctx, logger, cfg, o.copyIndex, pick)
	}

	logger.Info("xpick: right-click an element in the browser window", "url", o.url)
	for {
		if err := tab.WaitPick(ctx, 250*time.Millisecond); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		pick, err := tab.Pick(ctx, engine, o.copyIndex)
		if err != nil {
			logger.Warn("xpick: pick failed", "error", err)
			continue
		}
		if err := deliver(ctx, logger, cfg, o.copyIndex, pick); err != nil {
			logger.Warn("xpick: delivery failed", "pick", pick.ID, "error", err)
		}
	}
}

// deliver sends pick to the configured sinks, plus the clipboard when a
// candidate was selected with -copy.
func deliver(ctx context.Context, logger *slog.Logger, cfg *locator.FileConfig, copyIndex int, pick sink.Pick) error {
	cfgs := cfg.Sinks
	if copyIndex >= 0 {
		cfgs = sink.EnsureClipboard(cfgs)
	}
	out, err := sink.FromConfig(cfgs, logger)
	if err != nil {
		return err
	}
	defer out.Close()

	logger.Debug("xpick: pick", "pick", pick.ID, "tag", pick.Tag, "candidates", len(pick.Candidates))
	return out.Send(ctx, pick)
}

func runServe(ctx context.Context, logger *slog.Logger, engine *locator.Engine, listen string) error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	server.New(engine, server.WithLogger(logger)).RegisterHTTP(r)

	srv := &http.Server{
		Addr:              listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("xpick: server starting", "addr", listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("xpick: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, logger *slog.Logger, engine *locator.Engine) error {
	srv := mcp.NewServer(&mcp.Implementation{Name: "xpick", Version: version}, nil)
	server.New(engine, server.WithLogger(logger)).RegisterMCP(srv)
	logger.Info("xpick: mcp server on stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}
