package sections

import "github.com/goliatone/go-cms-sections/internal/runtimeconfig"

var (
	ErrDomainRequired           = runtimeconfig.ErrDomainRequired
	ErrLocalesRequired          = runtimeconfig.ErrLocalesRequired
	ErrDefaultLocaleUnsupported = runtimeconfig.ErrDefaultLocaleUnsupported
	ErrStorageDriverUnknown     = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired       = runtimeconfig.ErrStorageDSNRequired
	ErrTransportBaseURLInvalid  = runtimeconfig.ErrTransportBaseURLInvalid
	ErrTransportTimeoutInvalid  = runtimeconfig.ErrTransportTimeoutInvalid
	ErrAssetsUploadLimitInvalid = runtimeconfig.ErrAssetsUploadLimitInvalid
	ErrAuthSecretRequired       = runtimeconfig.ErrAuthSecretRequired
	ErrServerAddrRequired       = runtimeconfig.ErrServerAddrRequired
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	TransportConfig = runtimeconfig.TransportConfig
	AssetsConfig    = runtimeconfig.AssetsConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	ServerConfig    = runtimeconfig.ServerConfig
	AuthConfig      = runtimeconfig.AuthConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads dotenv files and SECTIONS_* variables on top of DefaultConfig.
func LoadConfig(files ...string) (Config, error) {
	return runtimeconfig.LoadEnv(files...)
}
