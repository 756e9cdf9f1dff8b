package core

// DBStores contains collection of testdeck dbstores
type DBStores struct {
	TesterStore          TesterStore
	TesterTypeStore      TesterTypeStore
	TesterGroupStore     TesterGroupStore
	ClientStore          ClientStore
	ProjectStore         ProjectStore
	DeviceStore          DeviceStore
	ResolutionStore      ResolutionStore
	ScenarioStore        ScenarioStore
	StatusSetStore       StatusSetStore
	StatusStore          StatusStore
	TestCaseStore        TestCaseStore
	TestCaseVersionStore TestCaseVersionStore
	TestSuiteStore       TestSuiteStore
	SuitcaseStore        SuitcaseStore
	RunStore             RunStore
	ExecutionStore       ExecutionStore
	AttachmentStore      AttachmentStore
}

// Services contains collection of testdeck services
type Services struct {
	AuthService      AuthService
	ExecutionService ExecutionService
}

// ResponseMetadata contains the pagination cursor returned by list APIs.
type ResponseMetadata struct {
	NextCursor string `json:"next_cursor"`
}
