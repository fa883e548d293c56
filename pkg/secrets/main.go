package secrets

// DEFAULT_KEY is the store entry consulted when no device-specific
// credentials exist.
const DEFAULT_KEY = "default"

type SecretStore interface {
	GetSecretByID(secretID string) (string, error)
	StoreSecretByID(secretID, secret string) error
	ListSecrets() (map[string]string, error)
	RemoveSecretByID(secretID string) error
}
