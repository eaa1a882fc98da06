package server

import (
	"context"
	"testing"

	"github.com/glmaps/mapmcp/pkg/engine"
)

func TestNewServer(t *testing.T) {
	m := engine.NewMemory()
	srv, err := NewServer(m, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if srv.Registry() == nil {
		t.Fatal("Registry() returned nil")
	}
	if got := len(srv.Registry().GetToolDefinitions()); got != 10 {
		t.Errorf("registered %d tools, want 10", got)
	}
	srv.Close(context.Background())
}

func TestNewServerRequiresEngine(t *testing.T) {
	if _, err := NewServer(nil, nil); err == nil {
		t.Fatal("NewServer(nil) should fail")
	}
}
