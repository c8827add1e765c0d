// Package config loads service configuration from YAML files and
// environment variables using viper, with optional .env support via
// godotenv.
//
// Configuration is validated once at construction; components receive
// fully-resolved structs and never default deep in the call path.
package config
