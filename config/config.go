package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	s, ok := config[key]
	if !ok || s == "" {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}

	return asBool
}

// GetDuration reads an integer number of seconds.
func GetDuration(config map[string]string, key string, defaultValue time.Duration) time.Duration {
	seconds := GetInt(config, key, -1)
	if seconds < 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}

func GetList(config map[string]string, key string) []string {
	raw := GetString(config, key, "")
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
