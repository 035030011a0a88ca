package main

import "testing"

func TestCommands(t *testing.T) {
	app := newApp()
	for _, name := range []string{"up", "down", "status"} {
		if app.Command(name) == nil {
			t.Fatalf("missing command %q", name)
		}
	}
	if app.DefaultCommand != "up" {
		t.Fatalf("unexpected default command %q", app.DefaultCommand)
	}
}
