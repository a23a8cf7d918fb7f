package config

// Application info
const (
	AppName = "welldata"

	// AppVersion is overridden at link time with -X.
	AppVersion = "1.0.0"
)

// Rate limiting
const (
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40
)

// Directories relative to the executable
const (
	DefaultLogsDir    = "logs"
	DefaultExportsDir = "exports"
)

// HTTP endpoints
const (
	APIBasePath       = "/api"
	WebSocketEndpoint = "/api/ws"
	ClientLogEndpoint = "/api/client-log"
	HealthEndpoint    = "/healthz"
	LivenessEndpoint  = "/livez"
	MetricsEndpoint   = "/metrics"
)
