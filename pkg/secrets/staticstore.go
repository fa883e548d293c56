package secrets

import "encoding/json"

// StaticStore serves the same credentials for every device ID. It backs
// the --username/--password CLI flags, which override any stored secrets.
type StaticStore struct {
	Username  string
	Password  string
	Community string
}

// NewStaticStore creates a new StaticStore with the given username and password.
func NewStaticStore(username, password string) *StaticStore {
	return &StaticStore{
		Username: username,
		Password: password,
	}
}

func (s *StaticStore) secretJSON() string {
	b, _ := json.Marshal(map[string]string{
		"username":  s.Username,
		"password":  s.Password,
		"community": s.Community,
	})
	return string(b)
}

func (s *StaticStore) GetSecretByID(secretID string) (string, error) {
	return s.secretJSON(), nil
}

func (s *StaticStore) StoreSecretByID(secretID, secret string) error {
	return nil
}

func (s *StaticStore) ListSecrets() (map[string]string, error) {
	return map[string]string{"static_creds": s.secretJSON()}, nil
}

func (s *StaticStore) RemoveSecretByID(secretID string) error {
	return nil
}
