package config

const (
	defaultConfigPath    = "~/.config/keyprobe/config.toml"
	projectConfigName    = "keyprobe.toml"
	defaultStagingDir    = "~/.cache/keyprobe/staging"
	defaultRegistryPath  = "~/.local/share/keyprobe/fingerprints.db"
	defaultKeytool       = "keytool"
	defaultSecurity      = "security"
	defaultOpenSSL       = "openssl"
	defaultToolTimeout   = 60
	defaultProvisionName = "embedded.mobileprovision"
	defaultMaxParallel   = 4
	defaultAlgorithm     = "fnv-crc"
	defaultForm          = "raw"
	defaultMaxAgeHours   = 24
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"

	storepassEnv = "KEYPROBE_STOREPASS"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir:   defaultStagingDir,
			RegistryPath: defaultRegistryPath,
		},
		Tools: Tools{
			Keytool:        defaultKeytool,
			Security:       defaultSecurity,
			OpenSSL:        defaultOpenSSL,
			TimeoutSeconds: defaultToolTimeout,
		},
		Inspect: Inspect{
			ProvisionName: defaultProvisionName,
			MaxParallel:   defaultMaxParallel,
		},
		Fingerprint: Fingerprint{
			Algorithm: defaultAlgorithm,
			Form:      defaultForm,
		},
		Staging: Staging{
			MaxAgeHours: defaultMaxAgeHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
