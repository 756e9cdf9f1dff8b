package api

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/testdeck/testdeck/config"
	"github.com/testdeck/testdeck/pkg/api/attachment"
	"github.com/testdeck/testdeck/pkg/api/client"
	"github.com/testdeck/testdeck/pkg/api/device"
	"github.com/testdeck/testdeck/pkg/api/execution"
	"github.com/testdeck/testdeck/pkg/api/health"
	"github.com/testdeck/testdeck/pkg/api/login"
	"github.com/testdeck/testdeck/pkg/api/logout"
	"github.com/testdeck/testdeck/pkg/api/middleware"
	"github.com/testdeck/testdeck/pkg/api/project"
	"github.com/testdeck/testdeck/pkg/api/resolution"
	"github.com/testdeck/testdeck/pkg/api/run"
	"github.com/testdeck/testdeck/pkg/api/scenario"
	"github.com/testdeck/testdeck/pkg/api/status"
	"github.com/testdeck/testdeck/pkg/api/statusset"
	"github.com/testdeck/testdeck/pkg/api/suitcase"
	"github.com/testdeck/testdeck/pkg/api/testcase"
	"github.com/testdeck/testdeck/pkg/api/testcaseversion"
	"github.com/testdeck/testdeck/pkg/api/tester"
	"github.com/testdeck/testdeck/pkg/api/testergroup"
	"github.com/testdeck/testdeck/pkg/api/testertype"
	"github.com/testdeck/testdeck/pkg/api/testsuite"
	"github.com/testdeck/testdeck/pkg/constants"
	"github.com/testdeck/testdeck/pkg/core"
	"github.com/testdeck/testdeck/pkg/lumber"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Router represents the routes for the http server.
type Router struct {
	cfg                  *config.Config
	signalCtx            context.Context
	session              core.Session
	redisDB              core.RedisDB
	fileStore            core.FileStore
	testerStore          core.TesterStore
	testerTypeStore      core.TesterTypeStore
	testerGroupStore     core.TesterGroupStore
	clientStore          core.ClientStore
	projectStore         core.ProjectStore
	deviceStore          core.DeviceStore
	resolutionStore      core.ResolutionStore
	scenarioStore        core.ScenarioStore
	statusSetStore       core.StatusSetStore
	statusStore          core.StatusStore
	testCaseStore        core.TestCaseStore
	testCaseVersionStore core.TestCaseVersionStore
	testSuiteStore       core.TestSuiteStore
	suitcaseStore        core.SuitcaseStore
	runStore             core.RunStore
	executionStore       core.ExecutionStore
	attachmentStore      core.AttachmentStore
	authService          core.AuthService
	executionService     core.ExecutionService
	logger               lumber.Logger
}

// New returns a New Router
func New(
	signalCtx context.Context,
	cfg *config.Config,
	session core.Session,
	dbStores *core.DBStores,
	services *core.Services,
	redisDB core.RedisDB,
	fileStore core.FileStore,
	logger lumber.Logger) Router {
	return Router{
		cfg:                  cfg,
		signalCtx:            signalCtx,
		session:              session,
		redisDB:              redisDB,
		fileStore:            fileStore,
		testerStore:          dbStores.TesterStore,
		testerTypeStore:      dbStores.TesterTypeStore,
		testerGroupStore:     dbStores.TesterGroupStore,
		clientStore:          dbStores.ClientStore,
		projectStore:         dbStores.ProjectStore,
		deviceStore:          dbStores.DeviceStore,
		resolutionStore:      dbStores.ResolutionStore,
		scenarioStore:        dbStores.ScenarioStore,
		statusSetStore:       dbStores.StatusSetStore,
		statusStore:          dbStores.StatusStore,
		testCaseStore:        dbStores.TestCaseStore,
		testCaseVersionStore: dbStores.TestCaseVersionStore,
		testSuiteStore:       dbStores.TestSuiteStore,
		suitcaseStore:        dbStores.SuitcaseStore,
		runStore:             dbStores.RunStore,
		executionStore:       dbStores.ExecutionStore,
		attachmentStore:      dbStores.AttachmentStore,
		authService:          services.AuthService,
		executionService:     services.ExecutionService,
		logger:               logger,
	}
}

// Handler function will perform all route operations
//
//nolint:funlen
func (r *Router) Handler() *gin.Engine {
	r.logger.Infof("Setting up routes")
	router := gin.New()
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := configureValidator(v); err != nil {
			r.logger.Fatalf("failed to configure validator %v", err)
		}
	}
	// skip /health API from logs as will be required in probes
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/health"))
	// Recovery middleware recovers from any panics and writes a 500 if there was one.
	router.Use(gin.Recovery())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = constants.CorsAllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("authorization", "cache-control", "pragma")
	router.Use(cors.New(corsConfig))
	router.Use(otelgin.Middleware(constants.ServiceName))
	pprof.Register(router)

	router.GET("/health", health.Handler(r.signalCtx))

	// session routes
	router.POST("/register", login.HandleRegister(r.authService, r.logger))
	router.POST("/login", login.HandleLogin(r.authService, r.session, r.logger))
	router.GET("/logout",
		middleware.HandleJWTVerification(r.session, r.redisDB, r.logger),
		logout.HandleLogout(r.redisDB, r.logger))

	authenticated := middleware.HandleJWTVerification(r.session, r.redisDB, r.logger)
	adminOnly := middleware.HandleAdminOnly(r.testerTypeStore, r.logger)

	// tester routes
	testerRoutes := router.Group("/tester")
	testerRoutes.Use(authenticated)
	testerRoutes.GET("/me", tester.HandleMe(r.testerStore, r.logger))
	testerRoutes.GET("", middleware.HandlePage(), tester.HandleList(r.testerStore, r.logger))
	testerRoutes.GET("/:testerID", tester.HandleFind(r.testerStore, r.logger))
	testerRoutes.PUT("/:testerID", adminOnly, tester.HandleUpdate(r.testerStore, r.logger))
	testerRoutes.DELETE("/:testerID", adminOnly, tester.HandleDelete(r.testerStore, r.logger))

	// tester type routes, admin only for mutations
	typeRoutes := router.Group("/tester-type")
	typeRoutes.Use(authenticated)
	typeRoutes.GET("", middleware.HandlePage(), testertype.HandleList(r.testerTypeStore, r.logger))
	typeRoutes.GET("/:typeID", testertype.HandleFind(r.testerTypeStore, r.logger))
	typeRoutes.POST("", adminOnly, testertype.HandleCreate(r.testerTypeStore, r.logger))
	typeRoutes.PUT("/:typeID", adminOnly, testertype.HandleUpdate(r.testerTypeStore, r.logger))
	typeRoutes.DELETE("/:typeID", adminOnly, testertype.HandleDelete(r.testerTypeStore, r.logger))

	// tester group routes
	groupRoutes := router.Group("/tester-group")
	groupRoutes.Use(authenticated)
	groupRoutes.GET("", middleware.HandlePage(), testergroup.HandleList(r.testerGroupStore, r.logger))
	groupRoutes.GET("/:groupID", testergroup.HandleFind(r.testerGroupStore, r.logger))
	groupRoutes.POST("", testergroup.HandleCreate(r.testerGroupStore, r.logger))
	groupRoutes.PUT("/:groupID", testergroup.HandleUpdate(r.testerGroupStore, r.logger))
	groupRoutes.DELETE("/:groupID", adminOnly, testergroup.HandleDelete(r.testerGroupStore, r.logger))

	// client routes
	clientRoutes := router.Group("/client")
	clientRoutes.Use(authenticated)
	clientRoutes.GET("", middleware.HandlePage(), client.HandleList(r.clientStore, r.logger))
	clientRoutes.GET("/:clientID", client.HandleFind(r.clientStore, r.logger))
	clientRoutes.POST("", adminOnly, client.HandleCreate(r.clientStore, r.logger))
	clientRoutes.PUT("/:clientID", adminOnly, client.HandleUpdate(r.clientStore, r.logger))
	clientRoutes.DELETE("/:clientID", adminOnly, client.HandleDelete(r.clientStore, r.logger))

	// project routes
	projectRoutes := router.Group("/project")
	projectRoutes.Use(authenticated)
	projectRoutes.GET("", middleware.HandlePage(), project.HandleList(r.projectStore, r.logger))
	projectRoutes.GET("/:projectID", project.HandleFind(r.projectStore, r.logger))
	projectRoutes.POST("", adminOnly, project.HandleCreate(r.projectStore, r.clientStore, r.logger))
	projectRoutes.PUT("/:projectID", adminOnly, project.HandleUpdate(r.projectStore, r.logger))
	projectRoutes.DELETE("/:projectID", adminOnly, project.HandleDelete(r.projectStore, r.logger))

	// device routes
	deviceRoutes := router.Group("/device")
	deviceRoutes.Use(authenticated)
	deviceRoutes.GET("", middleware.HandlePage(), device.HandleList(r.deviceStore, r.logger))
	deviceRoutes.GET("/:deviceID", device.HandleFind(r.deviceStore, r.logger))
	deviceRoutes.POST("", device.HandleCreate(r.deviceStore, r.projectStore, r.logger))
	deviceRoutes.PUT("/:deviceID", device.HandleUpdate(r.deviceStore, r.logger))
	deviceRoutes.DELETE("/:deviceID", adminOnly, device.HandleDelete(r.deviceStore, r.logger))

	// resolution routes
	resolutionRoutes := router.Group("/resolution")
	resolutionRoutes.Use(authenticated)
	resolutionRoutes.GET("", middleware.HandlePage(), resolution.HandleList(r.resolutionStore, r.logger))
	resolutionRoutes.GET("/:resolutionID", resolution.HandleFind(r.resolutionStore, r.logger))
	resolutionRoutes.POST("", resolution.HandleCreate(r.resolutionStore, r.logger))
	resolutionRoutes.DELETE("/:resolutionID", adminOnly, resolution.HandleDelete(r.resolutionStore, r.logger))

	// scenario routes
	scenarioRoutes := router.Group("/scenario")
	scenarioRoutes.Use(authenticated)
	scenarioRoutes.GET("", middleware.HandlePage(), scenario.HandleList(r.scenarioStore, r.logger))
	scenarioRoutes.GET("/:scenarioID", scenario.HandleFind(r.scenarioStore, r.logger))
	scenarioRoutes.POST("", scenario.HandleCreate(r.scenarioStore, r.logger))
	scenarioRoutes.PUT("/:scenarioID", scenario.HandleUpdate(r.scenarioStore, r.logger))
	scenarioRoutes.DELETE("/:scenarioID", adminOnly, scenario.HandleDelete(r.scenarioStore, r.logger))

	// status set routes
	setRoutes := router.Group("/status-set")
	setRoutes.Use(authenticated)
	setRoutes.GET("", middleware.HandlePage(), statusset.HandleList(r.statusSetStore, r.logger))
	setRoutes.GET("/:setID", statusset.HandleFind(r.statusSetStore, r.logger))
	setRoutes.GET("/:setID/statuses", statusset.HandleListStatuses(r.statusSetStore, r.statusStore, r.logger))
	setRoutes.POST("", adminOnly, statusset.HandleCreate(r.statusSetStore, r.logger))
	setRoutes.PUT("/:setID", adminOnly, statusset.HandleUpdate(r.statusSetStore, r.logger))
	setRoutes.DELETE("/:setID", adminOnly, statusset.HandleDelete(r.statusSetStore, r.logger))

	// status routes
	statusRoutes := router.Group("/status")
	statusRoutes.Use(authenticated)
	statusRoutes.GET("/:statusID", status.HandleFind(r.statusStore, r.logger))
	statusRoutes.POST("", adminOnly, status.HandleCreate(r.statusStore, r.statusSetStore, r.logger))
	statusRoutes.PUT("/:statusID", adminOnly, status.HandleUpdate(r.statusStore, r.logger))
	statusRoutes.DELETE("/:statusID", adminOnly, status.HandleDelete(r.statusStore, r.logger))

	// test case routes
	caseRoutes := router.Group("/test-case")
	caseRoutes.Use(authenticated)
	caseRoutes.GET("", middleware.HandlePage(), testcase.HandleList(r.testCaseStore, r.logger))
	caseRoutes.GET("/:caseID", testcase.HandleFind(r.testCaseStore, r.logger))
	caseRoutes.GET("/:caseID/versions", testcaseversion.HandleListByCase(r.testCaseVersionStore, r.testCaseStore, r.logger))
	caseRoutes.GET("/:caseID/versions/latest", testcaseversion.HandleFindLatest(r.testCaseVersionStore, r.logger))
	caseRoutes.POST("", testcase.HandleCreate(r.testCaseStore, r.scenarioStore, r.statusSetStore, r.logger))
	caseRoutes.POST(":caseID/versions/derive", testcaseversion.HandleDerive(r.testCaseVersionStore, r.logger))
	caseRoutes.PUT("/:caseID", testcase.HandleUpdate(r.testCaseStore, r.logger))
	caseRoutes.DELETE("/:caseID", adminOnly, testcase.HandleDelete(r.testCaseStore, r.logger))

	// test case version routes
	versionRoutes := router.Group("/test-case-version")
	versionRoutes.Use(authenticated)
	versionRoutes.GET("/:versionID", testcaseversion.HandleFind(r.testCaseVersionStore, r.logger))
	versionRoutes.POST("", testcaseversion.HandleCreate(r.testCaseVersionStore, r.testCaseStore, r.logger))
	versionRoutes.PUT("/:versionID", testcaseversion.HandleUpdate(r.testCaseVersionStore, r.logger))
	versionRoutes.DELETE("/:versionID", adminOnly, testcaseversion.HandleDelete(r.testCaseVersionStore, r.logger))

	// test suite routes
	suiteRoutes := router.Group("/test-suite")
	suiteRoutes.Use(authenticated)
	suiteRoutes.GET("", middleware.HandlePage(), testsuite.HandleList(r.testSuiteStore, r.logger))
	suiteRoutes.GET("/:suiteID", testsuite.HandleFind(r.testSuiteStore, r.logger))
	suiteRoutes.POST("/:suiteID/resolve", testsuite.HandleResolve(r.executionService, r.logger))
	suiteRoutes.GET("/:suiteID/suitcases", suitcase.HandleListBySuite(r.suitcaseStore, r.testSuiteStore, r.logger))
	suiteRoutes.POST("/:suiteID/suitcases", suitcase.HandleCreateBulk(r.suitcaseStore, r.testSuiteStore, r.logger))
	suiteRoutes.POST("", testsuite.HandleCreate(r.testSuiteStore, r.logger))
	suiteRoutes.PUT("/:suiteID", testsuite.HandleUpdate(r.testSuiteStore, r.logger))
	suiteRoutes.DELETE("/:suiteID", adminOnly, testsuite.HandleDelete(r.testSuiteStore, r.logger))

	// suitcase routes
	suitcaseRoutes := router.Group("/suitcase")
	suitcaseRoutes.Use(authenticated)
	suitcaseRoutes.POST("", suitcase.HandleCreate(r.suitcaseStore, r.testSuiteStore, r.testCaseStore, r.logger))
	suitcaseRoutes.DELETE("/:suitcaseID", suitcase.HandleDelete(r.suitcaseStore, r.logger))

	// run routes
	runRoutes := router.Group("/run")
	runRoutes.Use(authenticated)
	runRoutes.GET("", middleware.HandlePage(), run.HandleList(r.runStore, r.logger))
	runRoutes.GET("/:runID", run.HandleFind(r.runStore, r.logger))
	runRoutes.GET("/:runID/stats", run.HandleStats(r.runStore, r.logger))
	runRoutes.GET("/:runID/executions", run.HandleListExecutions(r.runStore, r.executionStore, r.logger))
	runRoutes.POST("", run.HandleCreate(r.runStore, r.projectStore, r.logger))
	runRoutes.POST("/:runID/materialize", run.HandleMaterialize(r.executionService, r.logger))
	runRoutes.PUT("/:runID", run.HandleUpdate(r.runStore, r.logger))
	runRoutes.PUT("/:runID/start", run.HandleStart(r.runStore, r.logger))
	runRoutes.PUT("/:runID/complete", run.HandleComplete(r.runStore, r.logger))
	runRoutes.DELETE("/:runID", adminOnly, run.HandleDelete(r.runStore, r.logger))

	// execution routes
	executionRoutes := router.Group("/execution")
	executionRoutes.Use(authenticated)
	executionRoutes.GET("", middleware.HandlePage(), execution.HandleList(r.executionStore, r.logger))
	executionRoutes.GET("/stats", execution.HandleStats(r.executionStore, r.logger))
	executionRoutes.GET("/:executionID", execution.HandleFind(r.executionStore, r.logger))
	executionRoutes.PATCH("/:executionID/status", execution.HandleTransitionStatus(r.executionService, r.logger))
	executionRoutes.PATCH("/:executionID/device", adminOnly, execution.HandleReassignDevice(r.executionService, r.logger))
	executionRoutes.PATCH("/:executionID/tester", adminOnly, execution.HandleReassignTester(r.executionService, r.logger))
	executionRoutes.DELETE("/:executionID", adminOnly, execution.HandleDelete(r.executionStore, r.logger))

	// attachment routes
	attachmentRoutes := router.Group("/attachment")
	attachmentRoutes.Use(authenticated)
	attachmentRoutes.GET("", middleware.HandlePage(), attachment.HandleList(r.attachmentStore, r.logger))
	attachmentRoutes.GET("/:attachmentID", attachment.HandleFind(r.attachmentStore, r.logger))
	attachmentRoutes.GET("/:attachmentID/download", attachment.HandleDownload(r.attachmentStore, r.fileStore, r.logger))
	attachmentRoutes.POST("", attachment.HandleUpload(r.cfg, r.attachmentStore, r.fileStore, r.logger))
	attachmentRoutes.DELETE("/:attachmentID", attachment.HandleDelete(r.attachmentStore, r.fileStore, r.logger))

	return router
}
