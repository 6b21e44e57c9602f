// Package main is a demonstration client: it logs in over plain HTTP,
// hands the authenticated cookies to a real browser, drives the page, and
// pulls the browser's state back into the HTTP session.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"reqbridge/application/session"
	"reqbridge/config"
	"reqbridge/infrastructure/browser"
	"reqbridge/infrastructure/logging"
	"reqbridge/infrastructure/repository"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	targetURL := flag.String("url", "https://example.com/", "page to fetch and open")
	snapshotName := flag.String("snapshot", "", "save session state to MongoDB under this name")
	flag.Parse()

	// Config first: its logging section decides how Setup behaves, so
	// load errors can only go to stderr.
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
			os.Exit(1)
		}
		cfg = loaded
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		os.Stderr.WriteString("Invalid config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Dir = cfg.Logging.Dir

	// Initialize logging (dev: console only, prod: rotating file)
	logger, closeLog, err := logging.Setup(logCfg)
	if err != nil {
		os.Stderr.WriteString("Failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	if err := run(context.Background(), cfg, logger, *targetURL, *snapshotName); err != nil {
		logger.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, targetURL, snapshotName string) error {
	s, err := session.New(&session.Config{
		Browser:        cfg.Session.Browser,
		DefaultTimeout: cfg.Session.TimeoutDuration(),
		Headless:       cfg.Session.Headless,
		HTTPProxy:      cfg.Session.HTTPProxy,
		SSLProxy:       cfg.Session.SSLProxy,
		UserAgent:      cfg.Session.UserAgent,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	// Plain HTTP first: fetch the page and scrape it without a browser.
	resp, err := s.Get(ctx, targetURL)
	if err != nil {
		return err
	}
	logger.Info("Fetched over HTTP", "url", s.LastURL(), "status", resp.StatusCode)

	titles, err := resp.XPath("//title")
	if err != nil {
		return err
	}
	if len(titles) > 0 {
		logger.Info("Page title", "title", titles[0])
	}

	links, err := resp.CSS("a[href]")
	if err != nil {
		return err
	}
	logger.Info("Links found", "count", links.Length())

	// Now the browser side: same cookies, same user-agent.
	d, err := s.Driver(ctx)
	if err != nil {
		return err
	}
	defer d.Stop()

	if err := s.PushCookiesToDriver(ctx, ""); err != nil {
		return err
	}
	if err := d.Navigate(ctx, targetURL); err != nil {
		return err
	}

	el, err := browser.WaitForTagName(ctx, d, "body", browser.StateVisible, 0)
	if err != nil {
		return err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return err
	}
	logger.Info("Rendered page body", "chars", len(text))

	// Adopt whatever the browser session accumulated.
	if err := s.PullCookiesFromDriver(ctx, true); err != nil {
		return err
	}
	logger.Info("Session synchronized with browser",
		"cookies", len(s.Jar().All()), "user_agent", s.UserAgent())

	if snapshotName != "" {
		if cfg.Mongo.URI == "" {
			return fmt.Errorf("snapshot %q requested but mongo.uri is not configured", snapshotName)
		}
		mongoCfg := repository.DefaultMongoDBConfig()
		mongoCfg.URI = cfg.Mongo.URI
		if cfg.Mongo.Database != "" {
			mongoCfg.Database = cfg.Mongo.Database
		}

		db, err := repository.NewMongoDB(ctx, mongoCfg, logger)
		if err != nil {
			return err
		}
		defer db.Close(ctx)

		snap := s.Export(snapshotName)
		if err := repository.NewMongoSnapshotRepository(db, logger).Save(ctx, &snap); err != nil {
			return err
		}
		logger.Info("Snapshot saved", "name", snapshotName)
	}

	return nil
}
