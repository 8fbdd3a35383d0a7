package env

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var Env map[string]string

// GetEnv returns a config value, preferring the loaded .env file over the
// process environment. Empty values count as unset.
func GetEnv(key, def string) string {
	if val, ok := Env[key]; ok && val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt parses an integer config value, falling back to def when the
// value is missing or not a number.
func GetEnvInt(key string, def int) int {
	v, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

// SetupEnvFile loads the nearest .env file into the Env map. Container
// deployments configure through real environment variables instead, so a
// missing file is not fatal.
func SetupEnvFile() {
	candidates := []string{
		".env",          // repo root
		"../../.env",    // from cmd/blu
		"../../../.env", // deeper nesting
	}
	for _, envFile := range candidates {
		if loaded, err := godotenv.Read(envFile); err == nil {
			Env = loaded
			return
		}
	}
	Env = map[string]string{}
	log.Println("no .env file found, using process environment only")
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
