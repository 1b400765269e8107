package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/output"
	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		info    BuildInfo
		wantOut []string
		wantErr bool
	}{
		{
			name:    "default version",
			info:    BuildInfo{Version: "0.1.0", Commit: "unknown", Date: "unknown"},
			wantOut: []string{"autoupdate v0.1.0", "- **Commit:** unknown", "EbookLib fork"},
		},
		{
			name:    "release build",
			info:    BuildInfo{Version: "1.2.3", Commit: "4f2a9c1", Date: "2026-10-01T12:00:00Z"},
			wantOut: []string{"autoupdate v1.2.3", "- **Commit:** 4f2a9c1", "- **Built:** 2026-10-01T12:00:00Z"},
		},
		{
			name:    "dev version",
			info:    BuildInfo{Version: "dev"},
			wantOut: []string{"autoupdate vdev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewVersionCommand(tt.info))
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			for _, want := range tt.wantOut {
				if !strings.Contains(out, want) {
					t.Errorf("output should contain %q, got: %s", want, out)
				}
			}
		})
	}
}

func TestVersionCommand_JSON(t *testing.T) {
	info := BuildInfo{Version: "1.2.3", Commit: "4f2a9c1", Date: "2026-10-01T12:00:00Z"}
	tr := testutil.NewTestRenderer(output.ModeJSON, false)

	require.NoError(t, executeWith(t, NewVersionCommand(info), tr))

	var got BuildInfo
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	assert.Equal(t, info, got)
}

func TestVersionCommand_RejectsArguments(t *testing.T) {
	_, err := execute(t, NewVersionCommand(BuildInfo{Version: "1"}), "extra")
	assert.Error(t, err)
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "test"})

	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}

	if cmd.Short == "" {
		t.Error("Short should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long should not be empty")
	}
}
