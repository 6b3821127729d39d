package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut []string
	}{
		{
			name:    "release version",
			version: "0.1.0",
			wantOut: []string{"benchrules v0.1.0", Description},
		},
		{
			name:    "dev version",
			version: "dev",
			wantOut: []string{"benchrules vdev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			got := buf.String()
			for _, want := range tt.wantOut {
				if !strings.Contains(got, want) {
					t.Errorf("output should contain %q, got: %s", want, got)
				}
			}
		})
	}
}
