package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/glmaps/mapmcp/pkg/engine"
	"github.com/glmaps/mapmcp/pkg/server"
	"github.com/glmaps/mapmcp/pkg/tools"
	"github.com/glmaps/mapmcp/pkg/version"
	"golang.org/x/time/rate"
)

var (
	showVersion    bool
	debug          bool
	generateConfig string
	listen         string
	opsPerSec      float64
	enablePopups   bool
	enableHover    bool
)

func init() {
	flag.BoolVar(&showVersion, "version", false, "Display version information")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&generateConfig, "generate-config", "", "Generate a Claude Desktop Client config file at the specified path")
	flag.StringVar(&listen, "listen", "", "Serve a websocket renderer bridge on this address (default: in-memory engine)")
	flag.Float64Var(&opsPerSec, "ops-per-sec", 0, "Throttle engine calls to this rate (0 disables)")
	flag.BoolVar(&enablePopups, "enable-popups", false, "Attach click-to-popup handling to point layers")
	flag.BoolVar(&enableHover, "enable-hover", false, "Attach hover-cursor handling to point layers")
}

func main() {
	flag.Parse()

	// Configure logging
	var logLevel slog.Level
	if debug {
		logLevel = slog.LevelDebug
	} else {
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if showVersion {
		fmt.Println(version.String())
		return
	}

	if generateConfig != "" {
		if err := generateClientConfig(generateConfig); err != nil {
			logger.Error("failed to generate config", "error", err)
			os.Exit(1)
		}
		logger.Info("successfully generated Claude Desktop Client config", "path", generateConfig)
		return
	}

	logger.Info("starting map MCP server",
		"version", version.BuildVersion,
		"log_level", logLevel.String())

	m := buildEngine(logger)

	opts := &tools.Options{
		EnablePopups:       enablePopups,
		EnableHoverEffects: enableHover,
	}

	srv, err := server.NewServer(m, opts)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	logger.Info("server initialized, waiting for requests")
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	srv.Close(context.Background())
}

// buildEngine assembles the engine stack from the flags: a websocket bridge
// when -listen is set, otherwise the in-memory engine, optionally wrapped
// in a rate limiter.
func buildEngine(logger *slog.Logger) engine.Map {
	var m engine.Map
	if listen != "" {
		bridge := engine.NewBridge(logger)
		mux := http.NewServeMux()
		mux.Handle("/ws", bridge)
		go func() {
			logger.Info("renderer bridge listening", "addr", listen)
			if err := http.ListenAndServe(listen, mux); err != nil {
				logger.Error("bridge listener failed", "error", err)
				os.Exit(1)
			}
		}()
		m = bridge
	} else {
		logger.Info("using in-memory engine")
		m = engine.NewMemory()
	}

	if opsPerSec > 0 {
		burst := int(opsPerSec)
		if burst < 1 {
			burst = 1
		}
		m = engine.NewThrottled(m, rate.NewLimiter(rate.Limit(opsPerSec), burst))
	}
	return m
}

// generateClientConfig creates or updates a Claude Desktop Client config file
func generateClientConfig(outputPath string) error {
	logger := slog.Default()

	// Get absolute path to executable
	execPath, err := os.Executable()
	if err != nil {
		execPath = os.Args[0] // Fallback to args if cannot get executable path
	}
	absExecPath, err := filepath.Abs(execPath)
	if err != nil {
		absExecPath = execPath // Use as is if cannot resolve absolute path
	}

	mapConfig := map[string]interface{}{
		"command": absExecPath,
		"args":    []string{},
	}

	var config map[string]interface{}

	// Check if file exists already
	if _, err := os.Stat(outputPath); err == nil {
		data, err := os.ReadFile(outputPath)
		if err != nil {
			return fmt.Errorf("failed to read existing config: %w", err)
		}

		if err := json.Unmarshal(data, &config); err != nil {
			logger.Warn("existing config is not valid JSON, will create new", "error", err)
			config = make(map[string]interface{})
		}
	} else {
		config = make(map[string]interface{})
	}

	mcpServers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		mcpServers = make(map[string]interface{})
		config["mcpServers"] = mcpServers
	}

	mcpServers["map"] = mapConfig

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
