package config

import (
	"os"
	"strconv"
)

// GlobalConfig holds settings shared by every binary: session lifetimes and the listen port.
type GlobalConfig struct {
	AccessTokenTTL   int // in minutes
	RefreshTokenTTL  int // in minutes
	RememberTokenTTL int // in minutes, refresh lifetime when "remember me" is set
	ServerPort       string
}

func LoadGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		AccessTokenTTL:   GetEnvInt("ACCESS_TOKEN_TTL_MINUTES", 30),
		RefreshTokenTTL:  GetEnvInt("REFRESH_TOKEN_TTL_MINUTES", 1440),   // 1 day
		RememberTokenTTL: GetEnvInt("REMEMBER_TOKEN_TTL_MINUTES", 43200), // 30 days
		ServerPort:       GetEnvDefault("SERVER_PORT", "8080"),
	}
}

// GetEnv retrieves the value of the environment variable named by the key.
// It panics when the key is missing; use it only for critical settings.
func GetEnv(key string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	} else {
		panic("critical config missing: " + key)
	}
}

// GetEnvDefault returns the variable named by key, or def when unset or empty.
func GetEnvDefault(key, def string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return def
}

// GetEnvInt parses an integer variable, falling back to def when unset or malformed.
func GetEnvInt(key string, def int) int {
	v, err := strconv.Atoi(GetEnvDefault(key, ""))
	if err != nil {
		return def
	}
	return v
}

// GetEnvBool accepts the strconv.ParseBool spellings, falling back to def.
func GetEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(GetEnvDefault(key, ""))
	if err != nil {
		return def
	}
	return v
}
