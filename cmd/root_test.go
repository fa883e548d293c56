package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestInitializeConfigReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "inventory-file: /etc/sonic/inventory.json\npower:\n  cycle-delay: 11\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	viper.Set("config", path)
	defer viper.Set("config", "")

	InitializeConfig()
	if got := viper.GetString("inventory-file"); got != "/etc/sonic/inventory.json" {
		t.Errorf("inventory-file not loaded from config, got %q", got)
	}
	if got := viper.GetInt("power.cycle-delay"); got != 11 {
		t.Errorf("power.cycle-delay not loaded from config, got %d", got)
	}
}

func TestInitializeConfigAppliesDefaults(t *testing.T) {
	viper.Set("config", "")
	InitializeConfig()
	if got := viper.GetInt("timeout"); got != 5 {
		t.Errorf("default timeout not applied, got %d", got)
	}
	if got := viper.GetStringSlice("verify.drivers"); len(got) != 1 || got[0] != "redfish" {
		t.Errorf("default verify.drivers not applied, got %v", got)
	}
}
