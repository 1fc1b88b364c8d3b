package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/openauction/auctiond/internal/config"
	"github.com/openauction/auctiond/internal/core/tree"
	"github.com/openauction/auctiond/internal/core/tx"
	"github.com/openauction/auctiond/internal/ledger"
	"github.com/openauction/auctiond/internal/receipts"
	"github.com/openauction/auctiond/internal/server/api/jsonrpc"
	"github.com/openauction/auctiond/internal/storage/keyValueDb"
	"github.com/openauction/auctiond/internal/storage/keyValueDb/bbolt"
	"github.com/openauction/auctiond/internal/storage/keyValueDb/pebble"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the settlement daemon",
	Long: `Start auctiond: open the account ledger, bring up the in-process
asset tree program and the sale-receipt journal, and serve the JSON-RPC
operation surface until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func buildLogger(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var log zerolog.Logger
	if cfg.Console {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger(), nil
}

func openStorage(cfg config.StorageConfig) (keyValueDb.DB, error) {
	switch cfg.Backend {
	case "bbolt":
		return bbolt.Open(cfg.Path)
	case "pebble":
		return pebble.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg.Log)
	if err != nil {
		return err
	}

	db, err := openStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer db.Close()
	log.Info().Str("backend", cfg.Storage.Backend).Str("path", cfg.Storage.Path).Msg("ledger storage open")

	var journal *receipts.Journal
	if cfg.Receipts.Path != "" {
		journal, err = receipts.Open(cfg.Receipts.Path)
		if err != nil {
			return fmt.Errorf("failed to open receipt journal: %w", err)
		}
		defer journal.Close()
	}

	store := ledger.NewStore(db)
	program := tree.NewProgram()
	engineCfg := tx.EngineConfig{
		Rent: ledger.Rent{Baseline: cfg.Rent.Baseline, PerByte: cfg.Rent.PerByte},
	}

	var recorder tx.SaleRecorder
	var lister jsonrpc.ReceiptLister
	if journal != nil {
		recorder = journal
		lister = journal
	}
	engine := tx.NewEngine(store, engineCfg, program, recorder, log)

	handler := jsonrpc.NewHandler(engine, lister, program, jsonrpc.TreeDefaults{
		Depth:  cfg.Tree.Depth,
		Canopy: cfg.Tree.Canopy,
	})
	srv := jsonrpc.NewServer(handler, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.RPC.Listen)
	})

	log.Info().Msg("auctiond started")
	err = group.Wait()
	if err != nil && ctx.Err() == nil {
		return err
	}
	log.Info().Msg("auctiond stopped")
	return nil
}
