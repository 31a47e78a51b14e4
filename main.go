// golem - a cheerful terminal chat companion.
//
// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/stokyware/golem/internal/attach"
	"github.com/stokyware/golem/internal/config"
	"github.com/stokyware/golem/internal/genai"
	"github.com/stokyware/golem/internal/server"
	"github.com/stokyware/golem/internal/store"
	"github.com/stokyware/golem/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
)

func main() {
	serve := flag.Bool("serve", false, "run the chat proxy instead of the interface")
	configPath := flag.String("config", "", "path to a config file (default ~/.golem/config.toml)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("golem %s (%s)\n", Version, GitCommit)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *serve {
		if err := runServer(cfg, *configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the explicit config file when given, the default
// location otherwise.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// =============================================================================
// INTERFACE MODE
// =============================================================================

func runTUI(cfg *config.Config) error {
	// The terminal owns stdout; logs go to a file in the config dir.
	if dir, err := config.Dir(); err == nil {
		if f, err := tea.LogToFile(filepath.Join(dir, "golem.log"), "golem"); err == nil {
			defer f.Close()
		}
	}

	storagePath, err := cfg.StoragePath()
	if err != nil {
		return err
	}

	st := store.New(store.NewFilePort(storagePath)).
		WithPreviewReleaser(attach.ReleasePreview)
	st.Hydrate()

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	m := ui.New(st, client)
	if cfg.UI.RevealIntervalMs > 0 {
		m = m.WithRevealInterval(time.Duration(cfg.UI.RevealIntervalMs) * time.Millisecond)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interface: %w", err)
	}
	return nil
}

// buildClient assembles the response client for the configured backend.
func buildClient(cfg *config.Config) (*genai.Client, error) {
	if cfg.Backend.Mode == config.ModeProxy {
		// The proxy pins model, persona, and fallback on its own side.
		return genai.NewClient(genai.NewProxyGenerator(cfg.Backend.ProxyURL), nil), nil
	}

	if cfg.Backend.APIKey == "" {
		return nil, fmt.Errorf("direct mode needs an API key: set GEMINI_API_KEY or backend.api_key")
	}

	primary := genai.NewDirectGenerator(cfg.Backend.APIKey, cfg.Backend.Model)
	var fallback genai.Generator
	if cfg.Backend.FallbackModel != "" {
		fallback = genai.NewDirectGenerator(cfg.Backend.APIKey, cfg.Backend.FallbackModel)
	}
	return genai.NewClient(primary, fallback), nil
}

// =============================================================================
// PROXY MODE
// =============================================================================

func runServer(cfg *config.Config, configPath string) error {
	if cfg.Backend.APIKey == "" {
		return fmt.Errorf("the proxy needs an API key: set GEMINI_API_KEY or backend.api_key")
	}

	srv := server.New(cfg.Server.Addr, serverBackend(cfg)).
		WithRateLimit(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)

	// Reload the backend when the config file changes, so key or model
	// swaps do not need a restart.
	watchPath := configPath
	if watchPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			watchPath = p
		}
	}
	if watchPath != "" {
		watcher, err := config.Watch(watchPath, func(next *config.Config) {
			if next.Backend.APIKey == "" {
				log.Print("config change ignored: no API key")
				return
			}
			srv.UpdateBackend(serverBackend(next))
		})
		if err != nil {
			log.Printf("config watch unavailable: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	// Shut down cleanly on SIGINT/SIGTERM.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	return srv.Start()
}

// serverBackend builds the upstream generator the proxy forwards to.
func serverBackend(cfg *config.Config) genai.Generator {
	return genai.NewDirectGenerator(cfg.Backend.APIKey, cfg.Backend.Model)
}
