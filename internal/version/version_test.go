package version

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuildInfo(t *testing.T, version, commit string) {
	t.Helper()
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })
	Version, Commit = version, commit
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestString(t *testing.T) {
	withBuildInfo(t, "1.2.3", "unknown")

	s := String()
	assert.True(t, strings.HasPrefix(s, "stylist version 1.2.3 ("))
	assert.NotContains(t, s, "commit:")
}

func TestStringWithCommit(t *testing.T) {
	withBuildInfo(t, "1.2.3", "0123456789abcdef")

	s := String()
	assert.Contains(t, s, "commit: 01234567")
}

func TestShort(t *testing.T) {
	withBuildInfo(t, "1.0.0", "unknown")
	assert.Equal(t, "1.0.0", Short())

	withBuildInfo(t, "1.0.0", "deadbeefcafe")
	assert.Equal(t, "1.0.0 (deadbeef)", Short())
}

func TestJSON(t *testing.T) {
	withBuildInfo(t, "2.0.0", "abc")

	var info Info
	require.NoError(t, json.Unmarshal([]byte(JSON()), &info))
	assert.Equal(t, "2.0.0", info.Version)
	assert.Equal(t, "abc", info.Commit)
}
