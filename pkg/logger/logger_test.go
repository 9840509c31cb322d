package logger

import "testing"

func TestNewWithOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"console debug", Options{Level: "debug", Format: "console"}, false},
		{"unknown level falls back", Options{Level: "loud", Format: "json"}, false},
		{"unknown format", Options{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewWithOptions(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewWithOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && l == nil {
				t.Fatal("expected logger, got nil")
			}
		})
	}
}
