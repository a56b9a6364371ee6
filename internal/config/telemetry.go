package config

// TelemetryConfig holds OTLP trace export configuration.
//
// Tracing is exported to a local OpenTelemetry collector over OTLP HTTP.
// See internal/observability for the exporter setup.
type TelemetryConfig struct {
	// Enabled turns trace export on. Disabled by default.
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// Endpoint is the collector OTLP HTTP endpoint (default: localhost:4318)
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	// Environment is the deployment environment tag (default: dev)
	Environment string `mapstructure:"environment" json:"environment"`
	// ServiceName is the service name on exported spans (default: quill)
	ServiceName string `mapstructure:"service_name" json:"service_name"`
}
