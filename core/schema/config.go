package schema

// Config holds configuration for the item schema source.
type Config struct {
	// Path is the JSON schema export to load.
	Path string `mapstructure:"path" default:"schema.json"`
}
