package loader

import "github.com/kelseyhightower/envconfig"

// Config is the environment-driven configuration for the hgraph-bulkload
// CLI (SPEC_FULL §11), following the retrieval pack's envconfig.Process
// pattern (cmd/longbow's grpc_server_config.go).
type Config struct {
	ParquetPath      string `envconfig:"PARQUET_PATH" required:"true"`
	Dim              int    `envconfig:"DIM" required:"true"`
	Metric           string `envconfig:"METRIC" default:"l2"`
	MaxDegree        int    `envconfig:"MAX_DEGREE" default:"16"`
	EfConstruction   int    `envconfig:"EF_CONSTRUCTION" default:"200"`
	BuildThreadCount int    `envconfig:"BUILD_THREAD_COUNT" default:"1"`
	UseReorder       bool   `envconfig:"USE_REORDER" default:"false"`
	OutputPath       string `envconfig:"OUTPUT_PATH" required:"true"`
	Compress         bool   `envconfig:"COMPRESS" default:"false"`
}

// LoadConfig reads Config from the environment, prefixed HGRAPH_.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("HGRAPH", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
