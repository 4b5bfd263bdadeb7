package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workspace lays out a project with two publishable themes and one without
// assets, and returns its root.
func workspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Chdir(root)
	t.Setenv("HOME", root)

	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("themes/default/theme.yaml", "name: Default\n")
	write("themes/default/assets/css/app.css", "body{}")
	write("themes/ocean/theme.yaml", "name: Dark Ocean\ndescription: Blue\n")
	write("themes/ocean/assets/js/app.js", "console.log(1)")
	write("themes/bare/theme.yaml", "name: Bare\n")

	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPublish_AllThemes(t *testing.T) {
	root := workspace(t)

	out, err := run(t, "publish")
	require.NoError(t, err)

	assert.Equal(t, "Default assets published.\nDark Ocean assets published.\nAssets published.\n", out)
	assert.FileExists(t, filepath.Join(root, "public", "themes", "default", "css", "app.css"))
	assert.FileExists(t, filepath.Join(root, "public", "themes", "dark-ocean", "js", "app.js"))
	assert.NoDirExists(t, filepath.Join(root, "public", "themes", "bare"))
}

func TestPublish_SingleTheme(t *testing.T) {
	root := workspace(t)

	out, err := run(t, "publish", "dark ocean")
	require.NoError(t, err)

	assert.Equal(t, "Dark Ocean assets published.\nAssets published.\n", out)
	assert.NoDirExists(t, filepath.Join(root, "public", "themes", "default"))
}

func TestPublish_Alias(t *testing.T) {
	workspace(t)

	out, err := run(t, "stylist:publish", "default")
	require.NoError(t, err)
	assert.Contains(t, out, "Default assets published.")
}

func TestPublish_UnknownTheme(t *testing.T) {
	root := workspace(t)

	out, err := run(t, "publish", "bare")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme not found")
	assert.Empty(t, out)
	assert.NoDirExists(t, filepath.Join(root, "public", "themes"))
}

func TestPublish_NoThemes(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	t.Setenv("HOME", root)

	out, err := run(t, "publish")
	require.NoError(t, err)
	assert.Equal(t, "Assets published.\n", out)
}

func TestPublish_FlagsOverrideConfig(t *testing.T) {
	root := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".stylist.yaml"),
		[]byte("publish:\n  public_dir: ./from-config\n"), 0o644))

	_, err := run(t, "publish", "--public-dir", "web", "--prefix", "static/themes", "--path", "themes")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "web", "static", "themes", "default", "css", "app.css"))
	assert.NoDirExists(t, filepath.Join(root, "from-config"))
}

func TestPublish_ConfigFile(t *testing.T) {
	root := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".stylist.yaml"),
		[]byte("publish:\n  public_dir: ./from-config\n"), 0o644))

	_, err := run(t, "publish")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "from-config", "themes", "default", "css", "app.css"))
}

func TestPublish_EnvOverridesConfigFile(t *testing.T) {
	root := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".stylist.yaml"),
		[]byte("publish:\n  prefix: from-config\n"), 0o644))
	t.Setenv("STYLIST_PUBLISH_PREFIX", "from-env")

	_, err := run(t, "publish", "default")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(root, "public", "from-env", "default"))
}

func TestPublish_DryRun(t *testing.T) {
	root := workspace(t)

	out, err := run(t, "publish", "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "Default assets would be published to themes/default (1 files, 6 B).")
	assert.True(t, strings.HasSuffix(out, "Dry run, no assets published.\n"))
	assert.NoDirExists(t, filepath.Join(root, "public"))
}

func TestPublish_DryRunFailureReportsNothingWritten(t *testing.T) {
	root := workspace(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "themes", "evil", "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "themes", "evil", "theme.yaml"),
		[]byte("name: Evil\nasset_path: ../escape\n"), 0o644))

	out, err := run(t, "publish", "--dry-run")
	require.Error(t, err)
	assert.ErrorContains(t, err, "publishing Evil")

	assert.Contains(t, out, "Default assets would be published to themes/default")
	assert.True(t, strings.HasSuffix(out, "Dry run, no assets published.\n"), out)
	assert.NoDirExists(t, filepath.Join(root, "public"))
}

func TestPublish_EscapingAssetPathIsRefused(t *testing.T) {
	root := workspace(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "themes", "evil", "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "themes", "evil", "assets", "app.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "themes", "evil", "theme.yaml"),
		[]byte("name: Evil\nasset_path: ../js\n"), 0o644))

	out, err := run(t, "publish", "evil")
	require.Error(t, err)
	assert.NotContains(t, out, "Assets published.")
	assert.NoFileExists(t, filepath.Join(root, "public", "js", "app.js"))
}

func TestPublish_ThemeDir(t *testing.T) {
	root := workspace(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor", "acme", "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "acme", "assets", "acme.css"), []byte("acme"), 0o644))

	out, err := run(t, "publish", "--path", "none", "--theme-dir", "vendor/acme")
	require.NoError(t, err)

	assert.Equal(t, "Acme assets published.\nAssets published.\n", out)
	assert.FileExists(t, filepath.Join(root, "public", "themes", "acme", "acme.css"))
}

func TestPublish_MissingThemeRoot(t *testing.T) {
	workspace(t)

	out, err := run(t, "publish", "--path", "does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, "Assets published.\n", out)
}

func TestPublish_InvalidPrefix(t *testing.T) {
	workspace(t)

	_, err := run(t, "publish", "--prefix", "../escape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish.prefix")
}

func TestPublish_TooManyArgs(t *testing.T) {
	workspace(t)

	_, err := run(t, "publish", "a", "b")
	require.Error(t, err)
}

func TestThemes_Table(t *testing.T) {
	root := workspace(t)

	out, err := run(t, "themes")
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Dark Ocean")
	assert.Contains(t, out, "dark-ocean")
	assert.Contains(t, out, "Bare")
	assert.NoDirExists(t, filepath.Join(root, "public"))
}

func TestThemes_JSON(t *testing.T) {
	workspace(t)

	out, err := run(t, "themes", "--json")
	require.NoError(t, err)

	var rows []themeRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)

	byName := make(map[string]themeRow)
	for _, r := range rows {
		byName[r.Name] = r
	}
	assert.True(t, byName["Default"].Publishable)
	assert.True(t, byName["Dark Ocean"].Publishable)
	assert.Equal(t, "dark-ocean", byName["Dark Ocean"].AssetPath)
	assert.False(t, byName["Bare"].Publishable)
}

func TestThemes_ShowsPublishState(t *testing.T) {
	workspace(t)

	_, err := run(t, "publish", "default")
	require.NoError(t, err)

	out, err := run(t, "themes", "--json")
	require.NoError(t, err)

	var rows []themeRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	byName := make(map[string]themeRow)
	for _, r := range rows {
		byName[r.Name] = r
	}
	assert.Equal(t, "themes/default", byName["Default"].Destination)
	assert.NotNil(t, byName["Default"].PublishedAt)
	assert.Equal(t, "themes/dark-ocean", byName["Dark Ocean"].Destination)
	assert.Nil(t, byName["Dark Ocean"].PublishedAt)

	out, err = run(t, "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "DESTINATION")
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "Default "):
			assert.NotContains(t, line, "never")
		case strings.HasPrefix(line, "Dark Ocean "):
			assert.Contains(t, line, "never")
		}
	}
}

func TestThemes_Empty(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	t.Setenv("HOME", root)

	out, err := run(t, "themes")
	require.NoError(t, err)
	assert.Equal(t, "No themes found.\n", out)
}

func TestConfigDump(t *testing.T) {
	workspace(t)

	out, err := run(t, "config", "dump")
	require.NoError(t, err)

	assert.Contains(t, out, "# All values shown below are defaults.")
	assert.Contains(t, out, "public_dir: ./public")
	assert.Contains(t, out, "prefix: themes")
	assert.Contains(t, out, "- ./themes")
}

func TestConfigDump_Effective(t *testing.T) {
	workspace(t)
	t.Setenv("STYLIST_PUBLISH_PUBLIC_DIR", "/srv/www")

	out, err := run(t, "config", "dump", "--effective")
	require.NoError(t, err)
	assert.Contains(t, out, "public_dir: /srv/www")
}

func TestVersion(t *testing.T) {
	workspace(t)

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "stylist version "))

	out, err = run(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
}

func TestLogLevelFlag(t *testing.T) {
	workspace(t)

	_, err := run(t, "--log-level", "debug", "--log-format", "json", "version")
	require.NoError(t, err)
}
