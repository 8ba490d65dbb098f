package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				// Verify some key fields are populated
				assert.Equal(t, 8000, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "reports_db", cfg.Database.Database)
				assert.Equal(t, "detection_jobs", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, 4, cfg.RabbitMQ.Consumer.PrefetchCount)
				assert.Equal(t, "elephant-detector", cfg.App.Name)
				assert.Equal(t, "http://localhost:9000/detect", cfg.Detector.InferenceURL)
				assert.Equal(t, 60*time.Second, cfg.Detector.Timeout)
				assert.Equal(t, "static", cfg.Media.StaticDir)
				assert.Equal(t, 24.0, cfg.Media.FallbackFPS)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8000},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "reports_db",
		},
		RabbitMQ: RabbitMQConfig{
			Host: "localhost",
			Port: 5672,
			Exchange: ExchangeConfig{
				Name: "detection_exchange",
			},
			Queue: QueueConfig{
				Name: "detection_jobs",
			},
		},
		Worker: WorkerConfig{Concurrency: 4},
		Detector: DetectorConfig{
			InferenceURL: "http://localhost:9000/detect",
			Timeout:      time.Minute,
		},
		Media: MediaConfig{StaticDir: "static"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   bool
		errString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:      "invalid server port",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "missing database host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name:      "missing database name",
			mutate:    func(c *Config) { c.Database.Database = "" },
			wantErr:   true,
			errString: "database name is required",
		},
		{
			name:      "missing rabbitmq host",
			mutate:    func(c *Config) { c.RabbitMQ.Host = "" },
			wantErr:   true,
			errString: "rabbitmq host is required",
		},
		{
			name:      "missing queue name",
			mutate:    func(c *Config) { c.RabbitMQ.Queue.Name = "" },
			wantErr:   true,
			errString: "rabbitmq queue name is required",
		},
		{
			name:      "zero worker concurrency",
			mutate:    func(c *Config) { c.Worker.Concurrency = 0 },
			wantErr:   true,
			errString: "worker concurrency must be greater than 0",
		},
		{
			name:      "missing inference url",
			mutate:    func(c *Config) { c.Detector.InferenceURL = "" },
			wantErr:   true,
			errString: "detector inference_url is required",
		},
		{
			name:      "zero detector timeout",
			mutate:    func(c *Config) { c.Detector.Timeout = 0 },
			wantErr:   true,
			errString: "detector timeout must be greater than 0",
		},
		{
			name:      "missing static dir",
			mutate:    func(c *Config) { c.Media.StaticDir = "" },
			wantErr:   true,
			errString: "media static_dir is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
