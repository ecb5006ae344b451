package constants

// EnvPrefix is the prefix of every environment variable read by the services.
const EnvPrefix = "ECSTASKS"

// DevServerPort is the default port of the local event harness.
const DevServerPort = "56213"

// ConfigDirName is the name of the CLI configuration directory under the home directory.
const ConfigDirName = ".ecstasks"

// ConfigFileName is the name of the CLI configuration file.
const ConfigFileName = "config.yaml"

// ConfigDirPath returns the full path to the CLI configuration directory.
func ConfigDirPath(homeDir string) string {
	return homeDir + "/" + ConfigDirName
}

// ConfigDirPermissions is the mode of the CLI configuration directory.
const ConfigDirPermissions = 0o750

// ConfigFilePermissions is the mode of the CLI configuration file.
const ConfigFilePermissions = 0o600
