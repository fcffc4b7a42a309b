package config

import "os"

// CredentialSource represents where a credential comes from.
type CredentialSource string

const (
	KeySourceEnv    CredentialSource = "env"
	KeySourceConfig CredentialSource = "config"
	KeySourceNone   CredentialSource = "none"
)

// KeyStatus represents the status of a configured credential.
type KeyStatus struct {
	Name   string           `json:"name"`
	Source CredentialSource `json:"source"`
	IsSet  bool             `json:"is_set"`
	Masked string           `json:"masked,omitempty"` // e.g., "Q8h...6#3"
}

// CheckCredentials returns the status of the live feed credentials.
// The feed demo refuses to start when any required credential is
// missing; this feeds the `status` command.
func CheckCredentials(cfg *Config) []KeyStatus {
	return []KeyStatus{
		checkKey("Feed API Key", cfg.Feed.APIKey, "SCRIPDESK_FEED_API_KEY"),
		checkKey("Feed API Secret", cfg.Feed.APISecret, "SCRIPDESK_FEED_API_SECRET"),
		checkKey("Feed Session Token", cfg.Feed.SessionToken, "SCRIPDESK_FEED_SESSION_TOKEN"),
	}
}

// checkKey checks if a credential is set and where it came from.
func checkKey(name, value, envVar string) KeyStatus {
	status := KeyStatus{
		Name:  name,
		IsSet: value != "",
	}

	if value != "" {
		if os.Getenv(envVar) != "" {
			status.Source = KeySourceEnv
		} else {
			status.Source = KeySourceConfig
		}
		status.Masked = maskKey(value)
	} else {
		status.Source = KeySourceNone
	}

	return status
}

// maskKey masks a credential for display, showing only first 3 and last 3 chars.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
