package version

import (
	"strings"
	"testing"
)

func TestVersionInfoIncludesStampedFields(t *testing.T) {
	defer func(v, c, b string) { Version, GitCommit, BuildTime = v, c, b }(Version, GitCommit, BuildTime)
	Version = "v1.2.3"
	GitCommit = "abc1234"
	BuildTime = "2026-08-30T00:00:00Z"

	if !IsSet() {
		t.Fatal("IsSet is false with stamped metadata")
	}
	info := VersionInfo()
	for _, want := range []string{"v1.2.3", "abc1234", "2026-08-30T00:00:00Z"} {
		if !strings.Contains(info, want) {
			t.Errorf("VersionInfo missing %q: %s", want, info)
		}
	}
	if got := Short(); got != "v1.2.3 (2026-08-30T00:00:00Z)" {
		t.Errorf("unexpected short form: %q", got)
	}
}

func TestIsSetWithoutMetadata(t *testing.T) {
	defer func(v, c string) { Version, GitCommit = v, c }(Version, GitCommit)
	Version, GitCommit = "", ""
	if IsSet() {
		t.Error("IsSet is true with no stamped metadata")
	}
}
