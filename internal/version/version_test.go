package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/muurk/zpnet", Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{
			name: "empty takes module version and short revision",
			in:   Info{},
			want: Info{Version: "v0.3.0", Commit: "0123456-dirty"},
		},
		{
			name: "ldflags win",
			in:   Info{Version: "v1.0.0", Commit: "abc123"},
			want: Info{Version: "v1.0.0", Commit: "abc123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fromBuildInfo(tt.in, bi))
		})
	}
}

func TestFromBuildInfo_DevelBuild(t *testing.T) {
	bi := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}

	got := fromBuildInfo(Info{}, bi)
	assert.Empty(t, got.Version)
	assert.Empty(t, got.Commit)
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "v0.3.0", Commit: "0123456", GoVersion: "go1.24.10", Platform: "linux/arm64"}
	assert.Equal(t, "zpnet v0.3.0 (commit: 0123456, go1.24.10, linux/arm64)", info.String())
}

func TestGet_NeverEmpty(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.Platform)
}
