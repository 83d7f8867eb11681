package archive

import (
	"errors"
	"testing"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		wantNil bool
		wantErr error
	}{
		{"none", Options{Type: "none"}, true, nil},
		{"empty", Options{}, true, nil},
		{"localfs", Options{Type: "localfs", Path: dir}, false, nil},
		{"localfs without path", Options{Type: "localfs"}, true, core.ErrConfigMissing},
		{"s3", Options{Type: "s3", S3: S3Config{Bucket: "results", Endpoint: "http://localhost:9000"}}, false, nil},
		{"s3 without bucket", Options{Type: "s3"}, true, core.ErrConfigMissing},
		{"unknown", Options{Type: "ftp"}, true, core.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if (s == nil) != tt.wantNil {
				t.Errorf("Open() storage = %v, wantNil %v", s, tt.wantNil)
			}
		})
	}
}
