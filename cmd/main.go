// Package main is the entry point for the hook bridge server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/adapters"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/config"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/gateway"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/schema"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// loadEnvFiles loads .env from standard locations
func loadEnvFiles() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		_ = godotenv.Load()
		return
	}

	// Try loading from ~/.config/hookbridge/.env first
	configEnv := filepath.Join(homeDir, ".config", "hookbridge", ".env")
	if _, err := os.Stat(configEnv); err == nil {
		_ = godotenv.Load(configEnv)
	}

	// Also load local .env (can override)
	_ = godotenv.Load()
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve", "start":
			runServer(os.Args[2:])
			return
		case "version", "-v", "--version":
			fmt.Printf("hookbridge %s\n", Version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	// Default: serve
	runServer(os.Args[1:])
}

// resolveConfig resolves the config file for the serve command.
// Checks: user flag -> filesystem locations.
func resolveConfig(userConfig string) ([]byte, string, error) {
	if userConfig != "" {
		data, err := os.ReadFile(userConfig)
		if err != nil {
			return nil, "", fmt.Errorf("config file not found: %s", userConfig)
		}
		return data, userConfig, nil
	}

	homeDir, _ := os.UserHomeDir()

	searchPaths := []string{}
	if homeDir != "" {
		searchPaths = append(searchPaths,
			filepath.Join(homeDir, ".config", "hookbridge", "config.yaml"),
		)
	}
	searchPaths = append(searchPaths, "configs/config.yaml", "config.yaml")

	for _, path := range searchPaths {
		if data, err := os.ReadFile(path); err == nil {
			return data, path, nil
		}
	}

	return nil, "", fmt.Errorf("no config file found. Specify --config path")
}

// runServer starts the bridge server
func runServer(args []string) {
	loadEnvFiles()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args) // ExitOnError handles errors

	setupLogging(*debug)

	configData, configSource, err := resolveConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("no config file found, specify --config path")
	}

	log.Info().
		Str("version", Version).
		Str("config", configSource).
		Msg("hookbridge starting")

	cfg, err := config.LoadFromBytes(configData)
	if err != nil {
		log.Fatal().Err(err).Str("config", configSource).Msg("failed to load configuration")
	}

	// "auto" picks the log format from the output: console on a TTY,
	// json otherwise.
	if cfg.Logging.Format == "auto" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			cfg.Logging.Format = "console"
		} else {
			cfg.Logging.Format = "json"
		}
	}

	log.Info().
		Int("port", cfg.Server.Port).
		Bool("ratelimit", cfg.Hooks.RateLimit.Enabled).
		Bool("auth", cfg.Hooks.Auth.Enabled).
		Bool("cache", cfg.Hooks.Cache.Enabled).
		Bool("audit", cfg.Hooks.Audit.Enabled).
		Msg("configuration loaded")

	gw, err := gateway.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build gateway")
	}

	if err := registerRoutes(gw); err != nil {
		log.Fatal().Err(err).Msg("failed to register routes")
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := gw.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("gateway shutdown error")
		}
	}()

	if err := gw.Start(); err != nil {
		log.Fatal().Err(err).Msg("gateway error")
	}

	log.Info().Msg("hookbridge stopped")
}

// registerRoutes mounts the built-in demonstration routes. Real
// deployments embed the gateway and register their own.
func registerRoutes(gw *gateway.Gateway) error {
	stamp := hooks.NewLifecycle("stamp", nil, func(c *hooks.AfterContext) hooks.Result {
		if m, ok := c.Response.(map[string]any); ok {
			m["served_by"] = "hookbridge/" + Version
			return hooks.Respond(m)
		}
		return hooks.Continue()
	}, nil)

	if err := gw.RegisterRoute("/echo", adapters.Route{
		ID:     "echo",
		Method: "POST",
		Hooks:  []hooks.Hook{stamp},
		Input:  schema.New(schema.Field{Name: "message", Type: schema.TypeString, Required: true}),
		Handler: func(input any, values map[string]any) (any, error) {
			m := input.(map[string]any)
			return map[string]any{"echo": m["message"]}, nil
		},
	}); err != nil {
		return err
	}

	return gw.RegisterStream("/ws/echo", adapters.Route{
		ID: "ws.echo",
		Handler: func(input any, values map[string]any) (any, error) {
			p := values["platform"].(*adapters.WSPlatform)
			for {
				typ, data, err := p.Conn.Read(p.Ctx)
				if err != nil {
					return map[string]any{"closed": true}, nil
				}
				if err := p.Conn.Write(p.Ctx, typ, data); err != nil {
					return map[string]any{"closed": true}, nil
				}
			}
		},
	})
}

// setupLogging configures the global zerolog logger used before the
// gateway's own logger exists.
func setupLogging(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// printHelp prints usage information
func printHelp() {
	fmt.Println("hookbridge - request lifecycle bridge server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  hookbridge [command] [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve        Start the bridge server (default)")
	fmt.Println("  version      Print version information")
	fmt.Println("  help         Show this help message")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config FILE    Config file (searches standard locations if omitted)")
	fmt.Println("  --debug          Enable debug logging")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  hookbridge serve --config config.yaml")
	fmt.Println("  hookbridge serve --debug")
}
