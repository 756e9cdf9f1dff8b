package constants

import "time"

const (
	// ServiceName OpenTelemetry service name
	ServiceName = "testdeck"
	// BinaryVersion binary version injected at build time.
	BinaryVersion = "dev"
	// MysqlMaxIdleConnection max mysql idle connections.
	MysqlMaxIdleConnection = 25
	// MysqlMaxOpenConnection max mysql open connections.
	MysqlMaxOpenConnection = 25
	// MysqlMaxConnectionLifetime max mysql connection lifetime.
	MysqlMaxConnectionLifetime = 5 * time.Minute
	// DefaultShutDownDelay is the delay before shutting down the http server.
	DefaultShutDownDelay = 5e9 // 5 seconds, value is int64 nanoseconds due to issue in viper.
	// DefaultGracefulTimeout is default timeout for graceful shutdown of the app.
	DefaultGracefulTimeout = 3e10 // 30 seconds
	// DefaultMaxUploadSize is the default attachment upload limit in bytes.
	DefaultMaxUploadSize = 256 << 20
	// Base10 is used in parsing ints from string
	Base10 = 10
	// BitSize64 represent bitSize 64 of integers in which the result of parsing strings must fit into
	BitSize64 = 64
)

// All possible env values
const (
	Dev   = "dev"
	Prod  = "prod"
	Stage = "stage"
)

// Tester type names seeded on startup. The first two form the admin tier.
const (
	TesterTypeSuper   = "super"
	TesterTypeAdmin   = "admin"
	TesterTypeRegular = "regular"
)

// DefaultStatusSetName is the status set seeded on startup.
const DefaultStatusSetName = "Default"

// CorsAllowedOrigins list of allowed origins
var CorsAllowedOrigins = []string{
	"http://localhost:3000",
	"https://testdeck.local:3000",
}

// AdminTesterTypes is the set of tester type names allowed to perform
// administrative operations.
var AdminTesterTypes = map[string]struct{}{
	TesterTypeSuper: {},
	TesterTypeAdmin: {},
}
