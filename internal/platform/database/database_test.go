package database

import (
	"testing"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid", "postgres://wm:wm@localhost:5432/wordmaster", false},
		{"valid-keyvalue", "host=localhost user=wm dbname=wordmaster", false},
		{"empty", "", true},
		{"invalid", "not-a-url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConnect_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	_, err := Connect(t.Context(), "postgres://wm:wm@localhost:59999/nonexistent?connect_timeout=1", PoolSize{Max: 2, Min: 1})
	if err == nil {
		t.Fatal("Connect() should return error for unreachable host")
	}
}
