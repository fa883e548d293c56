package snmp

import (
	"testing"
)

func TestProfileForHwSku(t *testing.T) {
	cases := map[string]string{
		"Sentry":          "sentry3",
		"Sentry3_4xx":     "sentry3",
		"Sentry4":         "sentry4",
		"ServerTech-PRO2": "sentry4",
		"Apc-8ports":      "apc",
		"unknown":         "sentry3",
		"":                "sentry3",
	}
	for sku, want := range cases {
		if got := profileForHwSku(sku).name; got != want {
			t.Errorf("profileForHwSku(%q) = %s, want %s", sku, got, want)
		}
	}
}

func TestProfileControlValues(t *testing.T) {
	for _, profile := range []vendorProfile{sentry3, sentry4, apc} {
		if profile.onValue == profile.offValue {
			t.Errorf("%s: on and off control values must differ", profile.name)
		}
		if !profile.onStates[profile.onValue] {
			t.Errorf("%s: on control value %d not recognized as an on state", profile.name, profile.onValue)
		}
	}
}
