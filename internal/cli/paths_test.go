package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestXDGDirs(t *testing.T) {
	tests := []struct {
		name     string
		fn       func() (string, error)
		env      string
		fallback string
	}{
		{"cache", cacheDir, "XDG_CACHE_HOME", ".cache"},
		{"config", configDir, "XDG_CONFIG_HOME", ".config"},
		{"data", dataDir, "XDG_DATA_HOME", filepath.Join(".local", "share")},
	}
	for _, tt := range tests {
		t.Run(tt.name+" default", func(t *testing.T) {
			t.Setenv(tt.env, "")
			dir, err := tt.fn()
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			home, _ := os.UserHomeDir()
			want := filepath.Join(home, tt.fallback, appName)
			if dir != want {
				t.Errorf("dir = %q, want %q", dir, want)
			}
		})
		t.Run(tt.name+" xdg", func(t *testing.T) {
			t.Setenv(tt.env, "/tmp/custom")
			dir, err := tt.fn()
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if want := filepath.Join("/tmp/custom", appName); dir != want {
				t.Errorf("dir = %q, want %q", dir, want)
			}
		})
	}
}
