package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/testdeck/testdeck/config"
	"github.com/testdeck/testdeck/pkg/api"
	"github.com/testdeck/testdeck/pkg/constants"
	"github.com/testdeck/testdeck/pkg/core"
	"github.com/testdeck/testdeck/pkg/db"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/jwt"
	"github.com/testdeck/testdeck/pkg/lumber"
	"github.com/testdeck/testdeck/pkg/opentelemetry"
	"github.com/testdeck/testdeck/pkg/redis"
	"github.com/testdeck/testdeck/pkg/server"
	authz "github.com/testdeck/testdeck/pkg/service/auth"
	executionz "github.com/testdeck/testdeck/pkg/service/execution"
	"github.com/testdeck/testdeck/pkg/startup"
	"github.com/testdeck/testdeck/pkg/storage/localfs"
	"github.com/testdeck/testdeck/pkg/store/attachments"
	"github.com/testdeck/testdeck/pkg/store/clients"
	"github.com/testdeck/testdeck/pkg/store/devices"
	"github.com/testdeck/testdeck/pkg/store/executions"
	"github.com/testdeck/testdeck/pkg/store/projects"
	"github.com/testdeck/testdeck/pkg/store/resolutions"
	"github.com/testdeck/testdeck/pkg/store/runs"
	"github.com/testdeck/testdeck/pkg/store/scenarios"
	"github.com/testdeck/testdeck/pkg/store/statuses"
	"github.com/testdeck/testdeck/pkg/store/statussets"
	"github.com/testdeck/testdeck/pkg/store/suitcases"
	"github.com/testdeck/testdeck/pkg/store/testcases"
	"github.com/testdeck/testdeck/pkg/store/testcaseversions"
	"github.com/testdeck/testdeck/pkg/store/testergroups"
	"github.com/testdeck/testdeck/pkg/store/testers"
	"github.com/testdeck/testdeck/pkg/store/testertypes"
	"github.com/testdeck/testdeck/pkg/store/testsuites"
)

// RootCommand will setup and return the root command
func RootCommand() *cobra.Command {
	rootCmd := cobra.Command{
		Use:     "testdeck",
		Long:    `testdeck is the backend of the manual test management platform. It tracks test cases, suites, runs and their executions.`,
		Version: constants.BinaryVersion,
		RunE:    run,
	}

	// define flags used for this command
	AttachCLIFlags(&rootCmd)

	return &rootCmd
}

// AttachCLIFlags attaches the command line flags to the command.
func AttachCLIFlags(rootCmd *cobra.Command) {
	rootCmd.Flags().String("config", "", "the config file to use")
	rootCmd.Flags().String("port", "9876", "the port to listen on")
	rootCmd.Flags().Bool("verbose", false, "enable verbose logging")
}

// nolint:funlen
func run(cmd *cobra.Command, args []string) error {
	// a WaitGroup for the goroutines to tell us they've stopped
	wg := sync.WaitGroup{}

	cfg, err := config.Load(cmd)
	if err != nil {
		fmt.Printf("Failed to load config: %v", err)
		return err
	}

	// patch logconfig file location with root level log file location
	if cfg.LogFile != "" {
		cfg.LogConfig.FileLocation = filepath.Join(cfg.LogFile, "td.log")
	}

	// You can also use logrus implementation
	// by using lumber.InstanceLogrusLogger
	logger, err := lumber.NewLogger(&cfg.LogConfig, cfg.Verbose, lumber.InstanceZapLogger)
	if err != nil {
		log.Printf("could not instantiate logger %s", err.Error())
		return err
	}
	database, err := db.Connect(cfg, logger)
	if err != nil {
		logger.Errorf("failed to create database connection %v", err)
		return err
	}
	// create a context that we can cancel
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize tracer
	if cfg.Tracing.OtelEndpoint != "" {
		tracerCleanup, tracerErr := opentelemetry.InitTracer(ctx, cfg, logger)
		if tracerErr != nil {
			logger.Errorf("failed to initialize tracer %v", tracerErr)
			return tracerErr
		}
		defer func() {
			if shutdownErr := tracerCleanup(context.Background()); shutdownErr != nil {
				logger.Errorf("Failed to cleanup the tracer %v", shutdownErr)
			}
		}()
	}

	redisDB, err := redis.New(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("failed to create redis database connection %v", err)
		return err
	}

	fileStore, err := localfs.New(cfg.Storage.BaseDir, logger)
	if err != nil {
		logger.Errorf("could not instantiate attachment file store %v", err)
		return err
	}

	session, err := jwt.New(cfg, logger)
	if err != nil {
		logger.Errorf("could not instantiate jwt authenticator %v", err)
		return err
	}

	dbStores := &core.DBStores{
		TesterStore:          testers.New(database, logger),
		TesterTypeStore:      testertypes.New(database, logger),
		TesterGroupStore:     testergroups.New(database, logger),
		ClientStore:          clients.New(database, logger),
		ProjectStore:         projects.New(database, logger),
		DeviceStore:          devices.New(database, logger),
		ResolutionStore:      resolutions.New(database, logger),
		ScenarioStore:        scenarios.New(database, logger),
		StatusSetStore:       statussets.New(database, logger),
		StatusStore:          statuses.New(database, logger),
		TestCaseStore:        testcases.New(database, logger),
		TestCaseVersionStore: testcaseversions.New(database, logger),
		TestSuiteStore:       testsuites.New(database, logger),
		SuitcaseStore:        suitcases.New(database, logger),
		RunStore:             runs.New(database, logger),
		ExecutionStore:       executions.New(database, logger),
		AttachmentStore:      attachments.New(database, logger),
	}

	services := &core.Services{
		AuthService: authz.New(dbStores.TesterStore, dbStores.TesterTypeStore, logger),
		ExecutionService: executionz.New(
			dbStores.TestSuiteStore,
			dbStores.SuitcaseStore,
			dbStores.TestCaseStore,
			dbStores.TestCaseVersionStore,
			dbStores.StatusStore,
			dbStores.RunStore,
			dbStores.DeviceStore,
			dbStores.TesterStore,
			dbStores.ExecutionStore,
			dbStores.AttachmentStore,
			logger),
	}

	seeder := startup.NewSeeder(dbStores.TesterTypeStore, dbStores.StatusSetStore, dbStores.StatusStore, logger)
	if err := seeder.Seed(ctx); err != nil {
		logger.Errorf("failed to seed startup records %v", err)
		return err
	}

	// create child context so as to fail the health API on SIGTERM/SIGINT
	// before the server stops.
	childCtx, childCancel := context.WithCancel(ctx)
	defer childCancel()
	routers := api.New(
		childCtx,
		cfg,
		session,
		dbStores,
		services,
		redisDB,
		fileStore,
		logger)
	wg.Add(1)
	// setup http server
	go func() {
		defer wg.Done()
		if err := server.ListenAndServe(ctx, &routers, cfg, logger); err != nil {
			logger.Errorf("error while running http server %v", err)
		}
	}()

	// listen for C-c
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	// create channel to mark status of waitgroup
	// this is required to brutally kill application in case of
	// timeout
	done := make(chan struct{})

	// asynchronously wait for all the go routines
	go func() {
		// and wait for all go routines
		wg.Wait()
		logger.Debugf("main: all goroutines have finished.")
		close(done)
	}()
	// wait for signal channel
	<-c
	logger.Debugf("main: received close signal - attempting graceful shutdown ....")
	childCancel()
	// add some delay so as to allow in-flight requests to drain
	time.Sleep(cfg.ShutDownDelay)
	// tell the goroutines to stop
	logger.Debugf("main: telling all goroutines to stop")
	cancel()
	select {
	case <-done:
		logger.Debugf("Go routines exited within timeout")
	case <-time.After(cfg.GracefulTimeout):
		logger.Errorf("Graceful timeout exceeded. Brutally killing the application")
		return errs.ErrTimeoutExceeded
	}
	return nil
}
