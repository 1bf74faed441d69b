package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	Version, Commit = "v0.3.0", "none"
	if got := Short(); got != "v0.3.0" {
		t.Errorf("Short() = %q, want v0.3.0", got)
	}

	Commit = "0123456789abcdef"
	if got := Short(); got != "v0.3.0+0123456" {
		t.Errorf("Short() = %q, want v0.3.0+0123456", got)
	}
}

func TestTemplate(t *testing.T) {
	if !strings.Contains(Template(), "{{.Name}} version") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.Contains(String(), "commit:") {
		t.Errorf("String() = %q", String())
	}
}
