package secrets

import (
	"encoding/hex"
	"os"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestNewLocalSecretStore(t *testing.T) {
	masterKey, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}

	filename := "test_secrets.json"
	defer func() {
		if err = os.Remove(filename); err != nil {
			log.Warn().Err(err).Msg("could not remove test secret store")
		}
	}()

	store, err := NewLocalSecretStore(masterKey, filename, true)
	if err != nil {
		t.Fatalf("Failed to create LocalSecretStore: %v", err)
	}

	if store.filename != filename {
		t.Errorf("Expected filename %s, got %s", filename, store.filename)
	}

	if hex.EncodeToString(store.masterKey) != masterKey {
		t.Errorf("Expected master key %s, got %s", masterKey, hex.EncodeToString(store.masterKey))
	}
}

func TestGenerateMasterKey(t *testing.T) {
	key, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}

	if len(key) != 64 { // 32 bytes in hex representation
		t.Errorf("Expected key length 64, got %d", len(key))
	}
}

func TestStoreAndGetSecretByID(t *testing.T) {
	masterKey, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}

	filename := "test_secrets.json"
	defer func() {
		if err = os.Remove(filename); err != nil {
			log.Warn().Err(err).Msg("could not remove test secret store")
		}
	}()

	store, err := NewLocalSecretStore(masterKey, filename, true)
	if err != nil {
		t.Fatalf("Failed to create LocalSecretStore: %v", err)
	}

	secretID := "pdu-107"
	secretValue := `{"community":"lab-rw"}`

	err = store.StoreSecretByID(secretID, secretValue)
	if err != nil {
		t.Fatalf("Failed to store secret: %v", err)
	}

	retrievedSecret, err := store.GetSecretByID(secretID)
	if err != nil {
		t.Fatalf("Failed to get secret: %v", err)
	}

	if retrievedSecret != secretValue {
		t.Errorf("Expected secret value %s, got %s", secretValue, retrievedSecret)
	}
}

func TestRemoveSecretByID(t *testing.T) {
	masterKey, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}

	filename := "test_secrets.json"
	defer func() {
		if err = os.Remove(filename); err != nil {
			log.Warn().Err(err).Msg("could not remove test secret store")
		}
	}()

	store, err := NewLocalSecretStore(masterKey, filename, true)
	if err != nil {
		t.Fatalf("Failed to create LocalSecretStore: %v", err)
	}

	if err := store.StoreSecretByID("dut-2020", `{"username":"admin","password":"password"}`); err != nil {
		t.Fatalf("Failed to store secret: %v", err)
	}
	if err := store.RemoveSecretByID("dut-2020"); err != nil {
		t.Fatalf("Failed to remove secret: %v", err)
	}
	if _, err := store.GetSecretByID("dut-2020"); err == nil {
		t.Error("Expected error getting a removed secret")
	}
	if err := store.RemoveSecretByID("dut-2020"); err == nil {
		t.Error("Expected error removing a missing secret")
	}
}

func TestListSecrets(t *testing.T) {
	masterKey, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}

	filename := "test_secrets.json"
	defer func() {
		if err = os.Remove(filename); err != nil {
			log.Warn().Err(err).Msg("could not remove test secret store")
		}
	}()

	store, err := NewLocalSecretStore(masterKey, filename, true)
	if err != nil {
		t.Fatalf("Failed to create LocalSecretStore: %v", err)
	}

	secretID1 := "pdu-107"
	secretValue1 := `{"community":"lab-rw"}`
	secretID2 := "dut-2020"
	secretValue2 := `{"username":"admin","password":"password"}`

	if err = store.StoreSecretByID(secretID1, secretValue1); err != nil {
		t.Fatalf("Failed to store secret: %v", err)
	}
	if err = store.StoreSecretByID(secretID2, secretValue2); err != nil {
		t.Fatalf("Failed to store secret: %v", err)
	}

	secrets, err := store.ListSecrets()
	if err != nil {
		t.Fatalf("Failed to list secrets: %v", err)
	}

	if len(secrets) != 2 {
		t.Errorf("Expected 2 secrets, got %d", len(secrets))
	}

	if secrets[secretID1] != store.Secrets[secretID1] {
		t.Errorf("Expected secret value %s, got %s", store.Secrets[secretID1], secrets[secretID1])
	}

	if secrets[secretID2] != store.Secrets[secretID2] {
		t.Errorf("Expected secret value %s, got %s", store.Secrets[secretID2], secrets[secretID2])
	}
}
