package mcpserver

import (
	"errors"
	"testing"

	"github.com/S2thend/cursor-history-mcp/internal/config"
	"github.com/S2thend/cursor-history-mcp/pkg/history/memstore"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped"
)

func TestNewServer(t *testing.T) {
	store := memstore.New()
	engine := wrapped.New()

	cases := []struct {
		name    string
		deps    *Deps
		wantErr error
	}{
		{"missing store", &Deps{Engine: engine}, ErrMissingStore},
		{"missing engine", &Deps{Store: store}, ErrMissingEngine},
		{"valid", &Deps{Store: store, Engine: engine, Config: config.Default()}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server, err := NewServer(tc.deps)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				if server != nil {
					t.Error("server should be nil on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewServer: %v", err)
			}
			if server == nil {
				t.Fatal("server should not be nil")
			}
		})
	}
}

func TestDepsValidate(t *testing.T) {
	deps := &Deps{Store: memstore.New(), Engine: wrapped.New()}
	if err := deps.Validate(); err != nil {
		t.Errorf("valid deps rejected: %v", err)
	}

	empty := &Deps{}
	if err := empty.Validate(); !errors.Is(err, ErrMissingStore) {
		t.Errorf("err = %v, want ErrMissingStore", err)
	}
}
