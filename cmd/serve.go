package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/steph544/compliance-app-sub001/internal/api"
	"github.com/steph544/compliance-app-sub001/internal/audit"
	"github.com/steph544/compliance-app-sub001/internal/catalog"
	"github.com/steph544/compliance-app-sub001/internal/config"
	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/engine"
	"github.com/steph544/compliance-app-sub001/internal/logging"
	"github.com/steph544/compliance-app-sub001/internal/source"
	"github.com/steph544/compliance-app-sub001/internal/store"
	"github.com/steph544/compliance-app-sub001/internal/tasks"
)

const catalogSyncTask = "catalog-sync"

var serveConfigPath string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Aegis server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := config.Load(serveConfigPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		signingKey := []byte(os.Getenv("AEGIS_SIGNING_KEY"))
		if len(signingKey) == 0 {
			return fmt.Errorf("AEGIS_SIGNING_KEY must be set to protect admin routes")
		}

		// load the local catalog first so the server starts with a known
		// good generation even when a remote source is configured
		var (
			rules    []core.Rule
			controls map[string]core.Control
		)
		if cfg.Catalog.Path != "" {
			log.Info().Str("path", cfg.Catalog.Path).Msg("Loading local catalog...")
			bundle, err := catalog.Load(cfg.Catalog.Path)
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}
			controls, err = bundle.Validate()
			if err != nil {
				return fmt.Errorf("validating catalog: %w", err)
			}
			rules = bundle.Rules
			log.Info().
				Int("rules", len(rules)).
				Int("controls", len(controls)).
				Str("version", bundle.Version).
				Msg("Catalog loaded")
		}
		catalogManager := engine.NewManager(rules, controls)

		auditor, err := buildAuditor(cfg.Audit)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer func() {
			_ = auditor.Close()
		}()

		taskManager := tasks.NewManager()
		if cfg.CatalogSource != nil {
			if err := registerCatalogSync(taskManager, cfg.CatalogSource, catalogManager); err != nil {
				return fmt.Errorf("registering catalog sync: %w", err)
			}
		}

		srv := api.NewServer(
			catalogManager,
			taskManager,
			auditor,
			store.NewInMemoryResultStore(),
			cfg.Vendor,
		)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes(signingKey),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func buildAuditor(cfg config.AuditConfig) (core.Auditor, error) {
	if !cfg.Enabled {
		return audit.NewNoopAuditor(), nil
	}
	switch cfg.Type {
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("audit.path is required for file auditing")
		}
		return audit.NewFileAuditor(cfg.Path)
	case "memory", "":
		return audit.NewInMemoryAuditor(), nil
	default:
		return nil, fmt.Errorf("unknown audit type '%s'", cfg.Type)
	}
}

// registerCatalogSync wires the remote catalog source into the task manager.
// Every successful fetch replaces the engine snapshot atomically; in-flight
// computations keep the generation they started with.
func registerCatalogSync(
	taskManager *tasks.Manager,
	src *config.CatalogSource,
	catalogManager *engine.CatalogManager,
) error {
	fetcher, err := source.NewGitHubFetcher(*src.GitHub)
	if err != nil {
		return err
	}

	interval := src.Sync.Interval
	if interval > 0 && interval < time.Minute {
		return fmt.Errorf("sync interval must be at least one minute")
	}

	taskManager.Register(catalogSyncTask, interval, func(ctx context.Context, logger logging.InternalLogger) error {
		bundle, err := fetcher.Fetch(ctx, logger)
		if err != nil {
			return err
		}
		if bundle == nil {
			logger.Warn("Remote source returned no catalog, keeping current generation")
			return nil
		}
		controls, err := bundle.Validate()
		if err != nil {
			return fmt.Errorf("validating fetched catalog: %w", err)
		}
		catalogManager.Update(bundle.Rules, controls)
		logger.Info("Catalog updated: %d rules, %d controls (version: %s)",
			len(bundle.Rules), len(controls), bundle.Version)
		return nil
	})
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "address to listen on")
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "aegis.yaml", "server configuration file")
}
