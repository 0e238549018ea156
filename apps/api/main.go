package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	echoapi "github.com/trezcool/madrasa/apps/api/echo"
	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/academic"
	"github.com/trezcool/madrasa/core/content"
	"github.com/trezcool/madrasa/core/homepage"
	"github.com/trezcool/madrasa/core/newsletter"
	cachesvc "github.com/trezcool/madrasa/services/cache"
	emailsvc "github.com/trezcool/madrasa/services/email"
	logsvc "github.com/trezcool/madrasa/services/logger"
	metricsvc "github.com/trezcool/madrasa/services/metrics"
	"github.com/trezcool/madrasa/storage/database"
	inmemdb "github.com/trezcool/madrasa/storage/database/inmem"
	mongorepos "github.com/trezcool/madrasa/storage/database/mongo"
	sqlxrepos "github.com/trezcool/madrasa/storage/database/sqlx"
)

type repositories struct {
	news        content.NewsRepository
	gallery     content.GalleryRepository
	selections  homepage.Repository
	subscribers newsletter.Repository
	academic    academic.Repository
	close       func() error
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	// set up DB
	repos, err := setUpRepositories(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = repos.close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	validate, translator := core.NewValidator()
	metrics := metricsvc.NewPrometheus()

	// set up services
	dispatcher := newsletter.NewDispatcher(newsletter.DispatcherDeps{
		Repo:     repos.subscribers,
		Mailer:   emailsvc.New(conf),
		Conf:     conf,
		Validate: validate,
		Logger:   logger,
		Metrics:  metrics,
	})
	if dispatcher.PreviewOnly() {
		logger.Warn("email provider not configured: newsletters will only be previewed")
	}
	notifier := newsletter.NewNotifier(dispatcher, logger, conf.Newsletter.QueueSize)

	resolverOpts := homepage.Options{Cache: cachesvc.New(conf.Homepage.CacheTTL), Metrics: metrics}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:            conf,
		Logger:          logger,
		Validate:        validate,
		Translator:      translator,
		ContentSvc:      content.NewService(repos.news, repos.gallery, validate),
		NewsResolver:    homepage.NewResolver(content.NewsSection(repos.news), repos.selections, validate, resolverOpts),
		GalleryResolver: homepage.NewResolver(content.GallerySection(repos.gallery), repos.selections, validate, resolverOpts),
		NewsletterSvc:   newsletter.NewService(repos.subscribers, validate),
		Dispatcher:      dispatcher,
		AcademicSvc:     academic.NewService(repos.academic, notifier, validate),
		MetricsHandler:  metrics.Handler(),
	})
	server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
	}

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	// asking listener to shutdown and shed load
	if err = server.Shutdown(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		if err = server.Close(); err != nil {
			logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
		}
	}

	// let queued notifications go out
	if err = notifier.Close(ctx); err != nil {
		logger.Error("notifications dropped on shutdown", err)
	}
}

func setUpRepositories(conf *core.Config) (*repositories, error) {
	switch conf.Database.Engine {
	case core.EngineMemory:
		db := inmemdb.NewDB()
		return &repositories{
			news:        inmemdb.NewNewsRepository(db),
			gallery:     inmemdb.NewGalleryRepository(db),
			selections:  inmemdb.NewSelectionRepository(db),
			subscribers: inmemdb.NewSubscriberRepository(db),
			academic:    inmemdb.NewAcademicRepository(db),
			close:       func() error { return nil },
		}, nil

	case core.EngineMongo:
		db, err := mongorepos.Open(context.Background(), conf)
		if err != nil {
			return nil, err
		}
		return mongoRepositories(db), nil

	case core.EnginePostgres:
		db, err := setUpPostgres(conf)
		if err != nil {
			return nil, err
		}
		return &repositories{
			news:        sqlxrepos.NewNewsRepository(db),
			gallery:     sqlxrepos.NewGalleryRepository(db),
			selections:  sqlxrepos.NewSelectionRepository(db),
			subscribers: sqlxrepos.NewSubscriberRepository(db),
			academic:    sqlxrepos.NewAcademicRepository(db),
			close:       db.Close,
		}, nil

	default:
		return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}
}

func mongoRepositories(db *mongo.Database) *repositories {
	return &repositories{
		news:        mongorepos.NewNewsRepository(db),
		gallery:     mongorepos.NewGalleryRepository(db),
		selections:  mongorepos.NewSelectionRepository(db),
		subscribers: mongorepos.NewSubscriberRepository(db),
		academic:    mongorepos.NewAcademicRepository(db),
		close:       func() error { return db.Client().Disconnect(context.Background()) },
	}
}

func setUpPostgres(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
