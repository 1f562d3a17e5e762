package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Debug bool
	Port  int

	Password string // shared dashboard password

	WiseAPIToken       string
	WisePrivateKeyFile string
	WiseSandbox        bool

	AccountType string // profile type the dashboard works with
	Currency    string
}

func NewConfig() *Config {
	return &Config{
		Debug: getBoolEnvDefault("DEBUG", false),
		Port:  getIntEnvDefault("PORT", 8080),

		Password: getStringEnvDefault("PASSWORD", "test"),

		WiseAPIToken:       getStringEnvDefault("WISE_API_TOKEN", ""),
		WisePrivateKeyFile: getStringEnvDefault("WISE_PRIVATE_KEY_FILE", "wise.pem"),
		WiseSandbox:        getBoolEnvDefault("WISE_SANDBOX", false),

		AccountType: getStringEnvDefault("ACCOUNT_TYPE", "BUSINESS"),
		Currency:    getStringEnvDefault("CURRENCY", "EUR"),
	}
}

func getBoolEnvDefault(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

func getStringEnvDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

func getIntEnvDefault(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}
