package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			check: func(t *testing.T, config *Config) {
				if config.Port != "8080" {
					t.Errorf("Expected default port 8080, got %s", config.Port)
				}
				if config.Environment != "development" {
					t.Errorf("Expected development environment, got %s", config.Environment)
				}
				if config.RoutePrefix != "/api" {
					t.Errorf("Expected route prefix /api, got %s", config.RoutePrefix)
				}
				if config.Log.Level != "info" || config.Log.Format != "json" {
					t.Errorf("Unexpected log config: %+v", config.Log)
				}
				if config.ShutdownTimeout != 30*time.Second {
					t.Errorf("Expected 30s shutdown timeout, got %v", config.ShutdownTimeout)
				}
				if !config.SwaggerEnabled {
					t.Error("Expected swagger to be enabled outside production")
				}
				if config.Auth.TokenDuration() != 24*time.Hour {
					t.Errorf("Expected 24h token duration, got %v", config.Auth.TokenDuration())
				}
			},
		},
		{
			name: "environment overrides",
			envVars: map[string]string{
				"PORT":           "9000",
				"ENVIRONMENT":    "production",
				"ROUTE_PREFIX":   "functions/",
				"LOG_LEVEL":      "DEBUG",
				"LOG_FORMAT":     "text",
				"FUNCTION_KEY":   "fn-key",
				"MASTER_KEY":     "master-key",
				"RATE_LIMIT_RPS": "5",
			},
			check: func(t *testing.T, config *Config) {
				if config.Port != "9000" {
					t.Errorf("Expected port 9000, got %s", config.Port)
				}
				if config.RoutePrefix != "/functions" {
					t.Errorf("Expected normalized prefix /functions, got %s", config.RoutePrefix)
				}
				if config.Log.Level != "debug" || config.Log.Format != "text" {
					t.Errorf("Unexpected log config: %+v", config.Log)
				}
				if config.Auth.FunctionKey != "fn-key" || config.Auth.MasterKey != "master-key" {
					t.Errorf("Unexpected auth config: %+v", config.Auth)
				}
				if config.RateLimit.RequestsPerSecond != 5 {
					t.Errorf("Expected 5 rps, got %f", config.RateLimit.RequestsPerSecond)
				}
				if config.SwaggerEnabled {
					t.Error("Expected swagger to default off in production")
				}
			},
		},
		{
			name: "custom handler port wins",
			envVars: map[string]string{
				"PORT":                    "9000",
				AzureCustomHandlerPortEnv: "7071",
			},
			check: func(t *testing.T, config *Config) {
				if config.Port != "7071" {
					t.Errorf("Expected custom handler port 7071, got %s", config.Port)
				}
			},
		},
		{
			name:    "invalid environment",
			envVars: map[string]string{"ENVIRONMENT": "staging-ish"},
			wantErr: true,
		},
		{
			name:    "invalid log format",
			envVars: map[string]string{"LOG_FORMAT": "xml"},
			wantErr: true,
		},
		{
			name:    "non numeric port",
			envVars: map[string]string{"PORT": "http"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"PORT", "ENVIRONMENT", "ROUTE_PREFIX", "LOG_LEVEL", "LOG_FORMAT",
				"FUNCTION_KEY", "MASTER_KEY", "RATE_LIMIT_RPS", "SWAGGER_ENABLED", AzureCustomHandlerPortEnv} {
				t.Setenv(key, "")
			}
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			config, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && config != nil {
				tt.check(t, config)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"/":         "",
		"api":       "/api",
		"/api":      "/api",
		"/api/":     "/api",
		" /api/v1 ": "/api/v1",
	}

	for input, want := range tests {
		if got := NormalizePrefix(input); got != want {
			t.Errorf("NormalizePrefix(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDetectServerlessConfig(t *testing.T) {
	t.Run("Server", func(t *testing.T) {
		t.Setenv(LambdaFunctionNameEnv, "")
		t.Setenv(AzureCustomHandlerPortEnv, "")
		t.Setenv(AzureWorkerRuntimeEnv, "")

		if mode := DetectServerlessConfig().Mode; mode != ModeServer {
			t.Errorf("Expected server mode, got %s", mode)
		}
	})

	t.Run("Lambda", func(t *testing.T) {
		t.Setenv(LambdaFunctionNameEnv, "sample")
		t.Setenv("AWS_REGION", "eu-west-1")

		cfg := DetectServerlessConfig()
		if cfg.Mode != ModeLambda {
			t.Errorf("Expected lambda mode, got %s", cfg.Mode)
		}
		if cfg.FunctionName != "sample" || cfg.Region != "eu-west-1" {
			t.Errorf("Unexpected lambda config: %+v", cfg)
		}
	})

	t.Run("Azure", func(t *testing.T) {
		t.Setenv(LambdaFunctionNameEnv, "")
		t.Setenv(AzureCustomHandlerPortEnv, "7071")

		if mode := DetectServerlessConfig().Mode; mode != ModeAzure {
			t.Errorf("Expected azure mode, got %s", mode)
		}
	})
}
