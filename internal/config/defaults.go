package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"db_path":                 "~/.funnelkit/funnels.db",
		"log_level":               "info",
		"log_format":              "console",
		"output_format":           "auto",
		"default_rollout_percent": 100,
	}
}
