package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables
const (
	EnvRPCEndpoint = "SANDWICHSIM_RPC_ENDPOINT"
	EnvInfuraKey   = "INFURA_API_KEY"
	EnvNetwork     = "NETWORK" // mainnet, sepolia, holesky
)

// LoadEnv loads environment variables from a .env file if one exists.
func LoadEnv() error {
	return godotenv.Load()
}

// GetEnvWithDefault gets an environment variable with a default value.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetRequiredEnv gets an environment variable, failing if it is unset.
func GetRequiredEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s not set", key)
	}
	return value, nil
}

// GetNetworkEndpoint resolves an Infura HTTP endpoint for the configured
// network when no explicit RPC endpoint is set.
func GetNetworkEndpoint() (string, error) {
	if endpoint := os.Getenv(EnvRPCEndpoint); endpoint != "" {
		return endpoint, nil
	}

	infuraKey, err := GetRequiredEnv(EnvInfuraKey)
	if err != nil {
		return "", err
	}

	network := GetEnvWithDefault(EnvNetwork, "mainnet")
	switch network {
	case "mainnet", "sepolia", "holesky":
		return fmt.Sprintf("https://%s.infura.io/v3/%s", network, infuraKey), nil
	default:
		return "", fmt.Errorf("unsupported network: %s", network)
	}
}
