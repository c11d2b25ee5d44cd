package utils

import (
	"os"
	"strings"
)

// IsDev returns true if the application is running in development environment
func IsDev() bool {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	return env == "development" || env == "dev" || env == ""
}

// IsProdName reports whether env names a production environment.
func IsProdName(env string) bool {
	env = strings.ToLower(env)
	return env == "production" || env == "prod"
}
