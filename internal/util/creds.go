package util

import (
	"github.com/Xichen96/sonic-mgmt/pkg/secrets"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// BuildSecretStore creates a secret store from credentials explicitly
// provided via Viper, or by opening the local secrets file. Explicit
// --username/--password/--community flags always win over stored secrets.
func BuildSecretStore() secrets.SecretStore {
	if viper.IsSet("username") && viper.IsSet("password") || viper.IsSet("community") {
		log.Debug().Msg("using credentials from CLI flags for all devices")
		store := secrets.NewStaticStore(viper.GetString("username"), viper.GetString("password"))
		store.Community = viper.GetString("community")
		return store
	}

	secretsFile := viper.GetString("secrets.file")
	log.Debug().Msgf("credentials not fully specified via flags, opening secret store at %s", secretsFile)
	store, err := secrets.OpenStore(secretsFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to open local secrets store")
		// Fall back to blank static credentials so callers always get a
		// usable store; lookups will warn about missing entries.
		return secrets.NewStaticStore(viper.GetString("username"), viper.GetString("password"))
	}
	return store
}
