package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/lixenwraith/ducky/parameter"
)

// loadEnvFile reads .env into the process environment without overriding set variables
// Returns false when no file was found
func loadEnvFile() bool {
	return godotenv.Load(parameter.EnvFile) == nil
}

// envDefaults seeds options from the environment; flags parsed afterwards win
func envDefaults() options {
	var opts options
	opts.configPath = os.Getenv(parameter.EnvConfig)
	opts.reducedMotion = envBool(parameter.EnvReducedMotion)
	opts.mute = envBool(parameter.EnvMute)
	if v, err := strconv.ParseUint(os.Getenv(parameter.EnvSeed), 10, 64); err == nil {
		opts.seed = v
	}
	return opts
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
