package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/config"
	"task-tracker-api/internal/history"
	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/routes"
	"task-tracker-api/internal/storage"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tasktracker",
		Short:         "In-memory task, epic and subtask tracker with an HTTP API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", envOr("TASKTRACKER_CONFIG", ""), "YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Load the store and serve the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "export",
			Short: "Print the stored items as CSV",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				return runExport(cmd.OutOrStdout(), cfg)
			},
		},
		&cobra.Command{
			Use:   "hash-password [password]",
			Short: "Print a bcrypt hash for auth.password_hash",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				password := ""
				if len(args) == 1 {
					password = args[0]
				} else {
					raw, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return err
					}
					password = strings.TrimRight(string(raw), "\r\n")
				}
				hash, err := auth.HashPassword(password)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), hash)
				return nil
			},
		},
	)
	return root
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openStore opens the configured backend and fills a fresh store from it.
func openStore(cfg config.Config) (*manager.Manager, storage.Backend, error) {
	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	items, err := backend.Load()
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("load %s store: %w", cfg.Storage.Backend, err)
	}

	store := manager.New(history.New(history.Options{
		Capacity:        cfg.History.Capacity,
		ConcurrencySafe: true,
	}))
	if err := store.Load(items); err != nil {
		backend.Close()
		return nil, nil, err
	}
	return store, backend, nil
}

func runExport(w io.Writer, cfg config.Config) error {
	store, backend, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()
	return storage.NewCSVFile("").Encode(w, store.Export())
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	store, backend, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()
	log.Printf("Loaded %d tasks, %d epics, %d subtasks from %s backend",
		len(store.GetTasks()), len(store.GetEpics()), len(store.GetSubtasks()), cfg.Storage.Backend)

	hub := realtime.NewHub()
	store.Subscribe(storage.NewPersister(backend, store))
	store.Subscribe(hub)

	ginRoutes := routes.SetupRoutes(routes.Deps{
		Store: store,
		Hub:   hub,
		Auth:  cfg.Auth,
	})

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: cfg.Addr(), Handler: ginRoutes}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", cfg.Addr())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
