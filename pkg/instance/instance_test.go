package instance

import "testing"

func TestGetIDPrefersExplicitID(t *testing.T) {
	t.Setenv("PHONEDEX_INSTANCE_ID", "api-2")
	t.Setenv("DYNO", "web.1")

	if got := GetID("local"); got != "api-2" {
		t.Fatalf("expected api-2, got %q", got)
	}
}

func TestGetIDFallsBackToDyno(t *testing.T) {
	t.Setenv("PHONEDEX_INSTANCE_ID", "")
	t.Setenv("DYNO", "web.1")

	if got := GetID("local"); got != "web.1" {
		t.Fatalf("expected web.1, got %q", got)
	}
}

func TestGetIDNeverEmpty(t *testing.T) {
	t.Setenv("PHONEDEX_INSTANCE_ID", "")
	t.Setenv("DYNO", "")

	if got := GetID("local"); got == "" {
		t.Fatal("expected a non-empty id")
	}
}
