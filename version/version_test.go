package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version == "" {
		t.Error("Version must never be empty")
	}
	if len(info.GitCommit) > 7 {
		t.Errorf("GitCommit = %q, want at most 7 characters", info.GitCommit)
	}
}

func TestShort(t *testing.T) {
	short := Short()
	if short == "" {
		t.Fatal("Short must never be empty")
	}
	if !strings.HasPrefix(short, Get().Version) {
		t.Errorf("Short = %q, must start with the version", short)
	}
}
