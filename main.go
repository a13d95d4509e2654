package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:     "todo-mcp",
		Short:   "Todo MCP server — user-scoped todo tools over JSON-RPC",
		Version: ServerVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(newServeCmd(), newCLICmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	InitLogger(os.Getenv("LOG_LEVEL"))

	// Load configuration
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Connect the todo store
	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	// Wire the protocol stack: dispatcher -> server -> transport. All of
	// these are immutable after construction.
	dispatcher := NewToolDispatcher(store)
	mcpServer := NewMCPServer(dispatcher)
	transport := NewMCPTransport(mcpServer, cfg.InternalSecret)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ServerHeader:          ServerName,
		DisableStartupMessage: false,
		AppName:               "Todo MCP Server",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Internal-Secret, X-User-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))

	transport.SetupRoutes(app)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info().Msg("Gracefully shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing todo store")
		}

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Error().Err(err).Msg("Error shutting down server")
		}
	}()

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Info().
		Str("address", addr).
		Str("store", store.Name()).
		Int("tools", len(listTools())).
		Msg("Starting Todo MCP Server")

	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
