package device

import (
	"encoding/json"
	"fmt"

	"github.com/Xichen96/sonic-mgmt/pkg/secrets"
	"github.com/rs/zerolog/log"
)

// Credentials for one lab device. Switches and PDU web interfaces use
// username/password; SNMP-managed PDUs carry a community string instead.
type Credentials struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Community string `json:"community,omitempty"`
}

// GetCredentials looks up credentials for the device id in the secret
// store, falling back to the store's default entry when no specific entry
// exists. Exhausting both options returns blank credentials along with the
// lookup error; callers decide whether blank is acceptable.
func GetCredentials(store secrets.SecretStore, id string) (Credentials, error) {
	var creds Credentials

	if id == secrets.DEFAULT_KEY {
		raw, err := store.GetSecretByID(id)
		if err != nil {
			log.Warn().Err(err).Msg("failed to get default credentials")
			return creds, fmt.Errorf("get default credentials: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &creds); err != nil {
			return creds, fmt.Errorf("unmarshal default credentials: %w", err)
		}
		return creds, nil
	}

	raw, err := store.GetSecretByID(id)
	if err != nil {
		log.Warn().Str("id", id).Msg("specific credentials not found, falling back to default")
		raw, err = store.GetSecretByID(secrets.DEFAULT_KEY)
		if err != nil {
			log.Warn().Str("id", id).Err(err).Msg("no default credentials were set, they will be blank unless overridden by CLI flags")
			return creds, err
		}
	}
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		log.Warn().Str("id", id).Err(err).Msg("failed to unmarshal credentials")
		return creds, err
	}
	return creds, nil
}
