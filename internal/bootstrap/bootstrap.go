package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	syncinadapter "timebox/internal/modules/cloudsync/adapter/in"
	syncoutadapter "timebox/internal/modules/cloudsync/adapter/out"
	syncservice "timebox/internal/modules/cloudsync/service"
	syncusecase "timebox/internal/modules/cloudsync/usecase"
	sessioninadapter "timebox/internal/modules/session/adapter/in"
	sessionoutadapter "timebox/internal/modules/session/adapter/out"
	sessionservice "timebox/internal/modules/session/service"
	sessionusecase "timebox/internal/modules/session/usecase"
	settingsinadapter "timebox/internal/modules/settings/adapter/in"
	settingsoutadapter "timebox/internal/modules/settings/adapter/out"
	settingsin "timebox/internal/modules/settings/port/in"
	settingsservice "timebox/internal/modules/settings/service"
	settingsusecase "timebox/internal/modules/settings/usecase"
	statsinadapter "timebox/internal/modules/stats/adapter/in"
	statsoutadapter "timebox/internal/modules/stats/adapter/out"
	statsservice "timebox/internal/modules/stats/service"
	statsusecase "timebox/internal/modules/stats/usecase"
	storageoutadapter "timebox/internal/modules/storage/adapter/out"
	storageservice "timebox/internal/modules/storage/service"
	syncapiinadapter "timebox/internal/modules/syncapi/adapter/in"
	syncapioutadapter "timebox/internal/modules/syncapi/adapter/out"
	syncapiservice "timebox/internal/modules/syncapi/service"
	syncapiusecase "timebox/internal/modules/syncapi/usecase"
	timeboxinadapter "timebox/internal/modules/timebox/adapter/in"
	timeboxoutadapter "timebox/internal/modules/timebox/adapter/out"
	timeboxservice "timebox/internal/modules/timebox/service"
	timeboxusecase "timebox/internal/modules/timebox/usecase"
	"timebox/internal/platform/clock"
	"timebox/internal/platform/config"
	"timebox/internal/platform/id"
	"timebox/internal/platform/logging"
	uiapp "timebox/internal/ui/app"
)

type App struct {
	TimeboxCLI  timeboxinadapter.CLIHandler
	SettingsCLI settingsinadapter.CLIHandler
	SessionCLI  sessioninadapter.CLIHandler
	SessionTUI  sessioninadapter.TUIHandler
	StatsCLI    statsinadapter.CLIHandler
	SyncCLI     syncinadapter.CLIHandler

	cache io.Closer
}

// lateSettings lets the scheduler read theme tags from the settings module,
// which itself depends on sessions and therefore on the scheduler.
type lateSettings struct {
	settingsin.Usecase
}

// New wires every client-side module over one switchable store. Sync state is
// restored before New returns so later reads see the synced slot.
func New(cfg config.Config, logOut io.Writer) (*App, error) {
	logger := logging.New(cfg.LogLevel, logOut)
	clk := clock.SystemClock{Location: cfg.Location}
	ids := id.UUID{}

	cache, err := storageoutadapter.NewSQLiteRecordCache(cfg.CacheDBPath)
	if err != nil {
		return nil, fmt.Errorf("new record cache: %w", err)
	}
	// Pulled records bypass the slot, so the cache mirror wraps the base store.
	base := storageoutadapter.NewMirroredStore(storageoutadapter.NewDiskvStore(cfg.StoreDir), cache, clk, logger)
	slot := storageoutadapter.NewSwitchStore(base)
	storage := storageservice.NewStorageService(slot, cache, clk, logger)

	settingsRef := &lateSettings{}
	timeboxUC := timeboxusecase.NewInteractor(timeboxservice.NewScheduler(
		clk,
		ids,
		timeboxoutadapter.NewStorageRepository(storage),
		timeboxoutadapter.NewSettingsThemeTagAdapter(settingsRef),
	))

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(
			ids,
			sessionoutadapter.NewStorageRepository(storage),
			sessionoutadapter.NewMarkdownReviewJournal(cfg.DataDir, cfg.Location),
			logger,
		),
		timeboxUC,
		clk,
		logger,
	)

	statsUC := statsusecase.NewInteractor(statsservice.NewStatsService(
		statsoutadapter.NewStorageRepository(storage),
		statsoutadapter.NewSessionSourceAdapter(sessionUC),
	), clk)

	settingsUC := settingsusecase.NewInteractor(settingsservice.NewSettingsService(
		settingsoutadapter.NewStorageRepository(storage),
		settingsoutadapter.NewStatsCounterAdapter(statsUC),
		settingsoutadapter.NewSessionTaggerAdapter(sessionUC),
	))
	settingsRef.Usecase = settingsUC

	syncUC := syncusecase.NewInteractor(syncservice.NewSyncService(
		syncoutadapter.NewHTTPClient(cfg.SyncAPIBase, cfg.SyncTimeout),
		slot,
		syncoutadapter.NewStoreStateStore(slot.Base()),
		clk,
		logger,
	))
	if _, err := syncUC.Bootstrap(context.Background()); err != nil {
		logger.Warn("sync bootstrap failed", "error", err)
	}

	return &App{
		TimeboxCLI:  timeboxinadapter.NewCLIHandler(timeboxUC),
		SettingsCLI: settingsinadapter.NewCLIHandler(settingsUC),
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		SessionTUI:  sessioninadapter.NewTUIHandler(sessionUC),
		StatsCLI:    statsinadapter.NewCLIHandler(statsUC),
		SyncCLI:     syncinadapter.NewCLIHandler(syncUC),
		cache:       cache,
	}, nil
}

// Close waits for queued cloud pushes and releases the record cache.
func (a *App) Close() error {
	a.SyncCLI.Wait()
	return a.cache.Close()
}

func RunFocus(app *App, opts uiapp.Options) error {
	model := uiapp.NewModel(opts, app.SessionTUI, app.StatsCLI, app.SettingsCLI, app.TimeboxCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Server hosts the sync HTTP API over a SQLite database.
type Server struct {
	http   *http.Server
	store  *syncapioutadapter.SQLiteStore
	logger hclog.Logger
}

func NewServer(cfg config.Config, logOut io.Writer) (*Server, error) {
	logger := logging.New(cfg.LogLevel, logOut)
	store, err := syncapioutadapter.NewSQLiteStore(cfg.ServerDB)
	if err != nil {
		return nil, fmt.Errorf("new sync api store: %w", err)
	}
	uc := syncapiusecase.NewInteractor(syncapiservice.NewSyncAPIService(
		store,
		store,
		store,
		id.CompactUUID{},
		clock.SystemClock{Location: time.UTC},
		logger,
	))
	handler := syncapiinadapter.NewHTTPHandler(uc, logger)
	return &Server{
		http: &http.Server{
			Addr:              cfg.ServerAddr,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:  store,
		logger: logger.Named("server"),
	}, nil
}

func (s *Server) Addr() string { return s.http.Addr }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		serveErr = s.http.Shutdown(shutdownCtx)
	}
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}
	return errors.Join(serveErr, s.store.Close())
}
