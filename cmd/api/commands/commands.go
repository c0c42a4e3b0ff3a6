package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hmicodes/catalog/internal/adapters/repository"
	"github.com/hmicodes/catalog/internal/application/services"
	"github.com/hmicodes/catalog/internal/infrastructure/config"
	"github.com/hmicodes/catalog/internal/infrastructure/logger"
	"github.com/hmicodes/catalog/internal/infrastructure/server"
	"github.com/hmicodes/catalog/internal/infrastructure/storage"
	"github.com/hmicodes/catalog/internal/ports"
)

// Version is set at build time
var Version = "dev"

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the error catalog web server",
		Long:  "Start the error catalog web server with the public catalog, the admin pages and the JSON API",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewHashPasswordCommand creates the command that prints a bcrypt hash for ADMIN_PASSWORD_HASH
func NewHashPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for the admin password",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				return errors.New("password is required")
			}

			hashed, err := services.HashPassword(password)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return nil
		},
	}

	cmd.Flags().String("password", "", "Admin password (required)")
	return cmd
}

// NewRecordsCommand creates the records command with subcommands
func NewRecordsCommand() *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect the error code data file",
	}

	recordsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every error code",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _, err := openRepository()
			if err != nil {
				return err
			}

			records, err := repo.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tHMI MESSAGE\tPLATFORMS")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Code, r.HMIMessage, r.Platforms)
			}
			return w.Flush()
		},
	})

	recordsCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the data file against the record schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, path, err := openRepository()
			if err != nil {
				return err
			}

			records, err := repo.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			seen := make(map[string]bool, len(records))
			var duplicates []string
			for _, r := range records {
				if seen[r.Code] {
					duplicates = append(duplicates, r.Code)
				}
				seen[r.Code] = true
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records\n", path, len(records))
			if len(duplicates) > 0 {
				return fmt.Errorf("duplicate codes: %v", duplicates)
			}
			return nil
		},
	})

	return recordsCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the catalog version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Error Code Catalog %s\n", Version)
		},
	}
}

func openRepository() (ports.ErrorRecordRepository, string, error) {
	cfg, err := config.LoadStore()
	if err != nil {
		return nil, "", err
	}

	return repository.NewErrorRecordRepository(cfg.Store.Path, cfg.Store.DelimiterRune()), cfg.Store.Path, nil
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	dataFile, err := storage.New(cfg.Store)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to prepare data file")
	}

	srv, err := server.New(cfg, dataFile, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize server")
	}

	appLogger.Infow("Starting error catalog server",
		"address", cfg.Server.GetAddr(),
		"environment", cfg.App.Environment,
		"store", dataFile.Path(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(cfg.Server.GetAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server shutdown failed")
	}
}
