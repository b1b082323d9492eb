package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"quanturnic/internal/api"
	"quanturnic/internal/engine"
	"quanturnic/internal/events"
	"quanturnic/internal/journal"
	"quanturnic/internal/monitor"
	"quanturnic/internal/rpc"
	"quanturnic/pkg/config"
	"quanturnic/pkg/db"
	"quanturnic/pkg/i18n"
	"quanturnic/pkg/instance"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot with its HTTP and gRPC endpoints",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		log.Printf(i18n.Get("ConfigLoadFailed"), err)
		return err
	}
	i18n.SetLanguage(i18n.Language(cfg.Language))
	log.Println(i18n.Get("Starting"))
	log.Println(i18n.Get("ConfigLoaded"))
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	return a.run(ctx)
}

// app is one fully wired bot process.
type app struct {
	cfg      *config.Config
	engine   *engine.Impl
	server   *api.Server
	metrics  *monitor.SystemMetrics
	alerts   *monitor.Monitor
	database *db.Database     // nil unless the journal is enabled
	journal  *journal.Journal // nil unless the journal is enabled
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	bus := events.NewBus()
	a.metrics = monitor.NewSystemMetrics()
	a.metrics.WatchBus(bus)
	log.Println(i18n.Get("SystemMetricsInit"))

	instanceID := instance.ID()
	log.Printf(i18n.Get("InstanceID"), instanceID)

	engCfg := engine.Config{
		InitialConfig:  engine.BotConfig{Strategy: cfg.DefaultStrategy, Threshold: cfg.DefaultThreshold},
		InitialBalance: cfg.InitialBalance,
		Bus:            bus,
		Metrics:        a.metrics,
		Meta: engine.SystemStatus{
			Version:        cfg.AppVersion,
			InstanceID:     instanceID,
			StartedAt:      time.Now().UTC(),
			JournalEnabled: cfg.EnableJournal,
			GRPCAddr:       cfg.GRPCAddr,
		},
	}

	if cfg.EnableJournal {
		log.Printf(i18n.Get("UsingDBPath"), cfg.DBPath)
		database, err := db.New(cfg.DBPath)
		if err != nil {
			log.Printf(i18n.Get("DBInitFailed"), err)
			return nil, fmt.Errorf("open journal: %w", err)
		}
		if err := db.ApplyMigrations(database); err != nil {
			log.Printf(i18n.Get("DBMigrationsFailed"), err)
			_ = database.Close()
			return nil, fmt.Errorf("migrate journal: %w", err)
		}
		a.database = database
		a.journal = journal.New(database, journal.Options{
			BatchSize:     cfg.JournalBatchSize,
			FlushInterval: cfg.JournalFlushInterval,
			OnError: func(err error) {
				a.metrics.IncrementJournalErrors()
				log.Printf(i18n.Get("JournalWriteFailed"), err)
			},
		})
		a.metrics.WatchJournal(a.journal)
		engCfg.TradeSink = a.journal
		engCfg.ConfigRecorder = a.journal
		log.Println(i18n.Get("JournalEnabled"))
	} else {
		log.Println(i18n.Get("JournalDisabled"))
	}

	a.alerts = &monitor.Monitor{
		Bus:  bus,
		Sink: monitor.LogSink{},
		Rule: &monitor.BalanceFloor{Floor: cfg.AlertBalanceFloor},
	}

	a.engine = engine.NewImpl(engCfg)
	log.Printf(i18n.Get("EngineServiceInit"), cfg.DefaultStrategy, cfg.DefaultThreshold, cfg.InitialBalance)

	a.server = api.NewServer(a.engine, bus, a.metrics, api.Options{
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	return a, nil
}

// run serves until ctx is cancelled or a listener fails, then shuts down.
func (a *app) run(ctx context.Context) error {
	errCh := make(chan error, 2)
	a.alerts.Start(ctx)

	httpSrv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf(i18n.Get("ServerListening"), a.cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf(i18n.Get("APIServerError"), err)
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	var grpcSrv *grpc.Server
	if a.cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", a.cfg.GRPCAddr)
		if err != nil {
			_ = httpSrv.Close()
			a.close()
			return fmt.Errorf("grpc listen: %w", err)
		}
		grpcSrv = rpc.NewServer(a.engine, a.metrics)
		go func() {
			log.Printf(i18n.Get("GRPCListening"), lis.Addr())
			if err := grpcSrv.Serve(lis); err != nil {
				log.Printf(i18n.Get("GRPCServerError"), err)
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
	} else {
		log.Println(i18n.Get("GRPCDisabled"))
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	log.Println(i18n.Get("ShuttingDown"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf(i18n.Get("APIServerError"), err)
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	a.close()
	log.Println(i18n.Get("ShutdownComplete"))
	return runErr
}

// close flushes the journal and releases the database.
func (a *app) close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			log.Printf(i18n.Get("JournalWriteFailed"), err)
		}
		log.Println(i18n.Get("JournalClosed"))
	}
	if a.database != nil {
		_ = a.database.Close()
	}
}
