package main

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/creasty/defaults"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Manifest schema versions this build of alignctl understands.
const supportedSchemaVersions = "^1"

var errUnsupportedSchemaVersion = errors.New("unsupported manifest schema version")

type config struct {
	SchemaVersion string `mapstructure:"schema_version" default:"1.0.0"`
	TempDir       string `mapstructure:"temp_directory" default:"/var/tmp/alignctl"`
	Parallelism   int    `mapstructure:"parallelism" default:"4"`

	Image imageConfig `mapstructure:"image"`

	Regions []regionConfig `mapstructure:"regions"`
}

type imageConfig struct {
	Alignment uint64 `mapstructure:"alignment" default:"512"`
	Format    string `mapstructure:"format" default:"flat"`

	// Format-specific options; decoded per format with decodeFormatConfig
	FormatOptions map[string]interface{} `mapstructure:",remain"`
}

type regionConfig struct {
	Name      string  `mapstructure:"name"`
	Path      string  `mapstructure:"path"`
	Alignment uint64  `mapstructure:"alignment"`
	Offset    *uint64 `mapstructure:"offset"`
}

type flatOptions struct {
	PadToSize bool `mapstructure:"pad_to_size" default:"true"`
}

type fatOptions struct {
	VolumeLabel string `mapstructure:"volume_label" default:"ALIGNKIT"`
}

func loadConfig(path string) (*config, error) {
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read manifest from '%s': %w", path, err)
	}

	config := &config{}

	if err := defaults.Set(config); err != nil {
		return nil, fmt.Errorf("failed to set manifest defaults: %w", err)
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	if err := checkSchemaVersion(config.SchemaVersion); err != nil {
		return nil, err
	}

	return config, nil
}

func checkSchemaVersion(schemaVersion string) error {
	version, err := semver.NewVersion(schemaVersion)
	if err != nil {
		return fmt.Errorf("invalid manifest schema version '%s': %w", schemaVersion, err)
	}

	constraint, err := semver.NewConstraint(supportedSchemaVersions)
	if err != nil {
		return fmt.Errorf("invalid schema version constraint: %w", err)
	}

	if !constraint.Check(version) {
		return fmt.Errorf("schema version %s does not satisfy %s: %w",
			version, supportedSchemaVersions, errUnsupportedSchemaVersion)
	}

	return nil
}

func decodeFormatConfig[T interface{}](opts map[string]interface{}) (*T, error) {
	var output T

	if err := defaults.Set(&output); err != nil {
		return nil, fmt.Errorf("failed to set default format options: %w", err)
	}

	if err := mapstructure.Decode(opts, &output); err != nil {
		return nil, fmt.Errorf("failed to parse format options: %w", err)
	}

	return &output, nil
}
