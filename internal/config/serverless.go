package config

import (
	"os"
	"sync"
)

const (
	// AzureCustomHandlerPortEnv is set by the Azure Functions host for custom handlers
	AzureCustomHandlerPortEnv = "FUNCTIONS_CUSTOMHANDLER_PORT"

	// AzureWorkerRuntimeEnv names the worker runtime inside an Azure Functions host
	AzureWorkerRuntimeEnv = "FUNCTIONS_WORKER_RUNTIME"

	// LambdaFunctionNameEnv is set inside AWS Lambda execution environments
	LambdaFunctionNameEnv = "AWS_LAMBDA_FUNCTION_NAME"
)

// Deployment modes
const (
	ModeServer = "server"
	ModeLambda = "lambda"
	ModeAzure  = "azure-functions"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	Mode         string
	FunctionName string
	Region       string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration, detected once per process
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = DetectServerlessConfig()
	})
	return serverlessConfig
}

// DetectServerlessConfig inspects the environment without caching the result
func DetectServerlessConfig() *ServerlessConfig {
	cfg := &ServerlessConfig{
		Mode:  ModeServer,
		Stage: GetEnv("STAGE", "dev"),
	}

	switch {
	case os.Getenv(LambdaFunctionNameEnv) != "":
		cfg.Mode = ModeLambda
		cfg.FunctionName = os.Getenv(LambdaFunctionNameEnv)
		cfg.Region = os.Getenv("AWS_REGION")
	case os.Getenv(AzureCustomHandlerPortEnv) != "" || os.Getenv(AzureWorkerRuntimeEnv) != "":
		cfg.Mode = ModeAzure
		cfg.FunctionName = os.Getenv("WEBSITE_SITE_NAME")
		cfg.Region = os.Getenv("REGION_NAME")
	}

	return cfg
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	return GetServerlessConfig().Mode
}

// GetOptimizedConfig returns configuration adjusted for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	// Serverless hosts own the listener; docs UI and in-process rate limiting
	// belong to the standalone server only.
	if GetServerlessConfig().Mode == ModeLambda {
		config.SwaggerEnabled = false
		config.RateLimit = RateLimitConfig{}
	}

	return config, nil
}
