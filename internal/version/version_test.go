package version

import (
	"strings"
	"testing"
)

func TestGettersMatchInfo(t *testing.T) {
	v, c, d := Info()
	if v == "" || c == "" || d == "" {
		t.Fatalf("build info must not be empty: %q %q %q", v, c, d)
	}
	if GetVersion() != v {
		t.Errorf("GetVersion = %q, want %q", GetVersion(), v)
	}
	if GetCommit() != c {
		t.Errorf("GetCommit = %q, want %q", GetCommit(), c)
	}
	if GetDate() != d {
		t.Errorf("GetDate = %q, want %q", GetDate(), d)
	}
}

func TestString(t *testing.T) {
	s := String()
	for _, part := range []string{"version=" + GetVersion(), "commit=" + GetCommit(), "date=" + GetDate()} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
}

func TestOverride(t *testing.T) {
	prev := version
	t.Cleanup(func() { version = prev })

	version = "v9.9.9"
	if GetVersion() != "v9.9.9" || !strings.HasPrefix(String(), "version=v9.9.9 ") {
		t.Fatalf("override not reflected: %s", String())
	}
}
