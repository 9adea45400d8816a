package constants

// Default scraping configuration values
const (
	DefaultFetchPageSize     = 100
	DefaultScrapeIntervalSec = 3600
	DefaultRetryBackoffMs    = 1000
	DefaultMaxBackoffMs      = 60000
	DefaultRetentionDays     = 0 // retention disabled unless configured
	DefaultServerPort        = 8081
)

// Report rendering limits
const (
	DefaultReportSampleSize    = 5
	DefaultReportSnippetLength = 100
)

// Default timeout values
const (
	DefaultHTTPTimeoutSec        = 30
	DefaultDatabaseRetryAttempts = 3
	DefaultGracefulShutdownSec   = 30
	DefaultScrapeCycleTimeoutSec = 300
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultCleanupIntervalHours  = 24
)

// Encryption parameters for optional at-rest message encryption
const (
	EncryptionSalt       = "telescrape-db-salt-v1"
	EncryptionKeySize    = 32
	EncryptionNonceSize  = 12
	EncryptionIterations = 100000
)
