package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/eso-addons/internal/config"
	"github.com/ethanolivertroy/eso-addons/internal/models"
)

type fixture struct {
	configFile string
	addonDir   string
}

func newFixture(t *testing.T, entries ...models.DesiredEntry) fixture {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	f := fixture{
		configFile: filepath.Join(dir, "eso-addons.toml"),
		addonDir:   filepath.Join(dir, "AddOns"),
	}
	require.NoError(t, os.Mkdir(f.addonDir, 0o755))
	require.NoError(t, config.Save(f.configFile, &models.Desired{AddonDir: f.addonDir, Addons: entries}))
	return f
}

func (f fixture) install(t *testing.T, name, manifest string) {
	t.Helper()
	dir := filepath.Join(f.addonDir, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, filepath.Base(name)+".txt"), []byte(manifest), 0o644))
}

func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", f.configFile, "--no-cache"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList_JSON(t *testing.T) {
	f := newFixture(t, models.DesiredEntry{Name: "CombatMetrics"})
	f.install(t, "CombatMetrics", "## Version: 1.4\n## DependsOn: LibCombat>=5\n")
	f.install(t, "Stray", "")

	out, err := f.run(t, "list", "--format", "json")
	require.NoError(t, err)

	var decoded struct {
		Missing   []string `json:"missing_dependencies"`
		Unused    []string `json:"unused_dependencies"`
		Unmanaged []struct {
			Name string `json:"name"`
		} `json:"unmanaged"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []string{"LibCombat"}, decoded.Missing)
	assert.Equal(t, []string{"Stray"}, decoded.Unused)
	require.Len(t, decoded.Unmanaged, 1)
	assert.Equal(t, "Stray", decoded.Unmanaged[0].Name)
}

func TestList_MissingConfig(t *testing.T) {
	f := fixture{configFile: filepath.Join(t.TempDir(), "none.toml")}

	_, err := f.run(t, "list", "--format", "terminal")
	assert.ErrorIs(t, err, config.ErrNotFound)
}

func TestRemove(t *testing.T) {
	f := newFixture(t,
		models.DesiredEntry{Name: "A"},
		models.DesiredEntry{Name: "B", Dependency: true},
	)
	f.install(t, "A", "")
	f.install(t, "B", "")

	out, err := f.run(t, "remove", "B")
	require.NoError(t, err)
	assert.Contains(t, out, "Uninstalled B!")
	assert.NoDirExists(t, filepath.Join(f.addonDir, "B"))
	assert.DirExists(t, filepath.Join(f.addonDir, "A"))

	desired, err := config.Load(f.configFile)
	require.NoError(t, err)
	assert.Equal(t, []models.DesiredEntry{{Name: "A"}}, desired.Addons)

	_, err = f.run(t, "remove", "B")
	assert.ErrorIs(t, err, models.ErrAddonNotFound)
}

func TestClean(t *testing.T) {
	f := newFixture(t, models.DesiredEntry{Name: "CombatMetrics"})
	f.install(t, "CombatMetrics", "")
	f.install(t, "CombatMetrics/CombatMetricsFightData", "")
	f.install(t, "Stray", "")

	out, err := f.run(t, "clean", "--remove=false")
	require.NoError(t, err)
	assert.Contains(t, out, "- Stray")
	assert.NotContains(t, out, "CombatMetricsFightData")
	assert.DirExists(t, filepath.Join(f.addonDir, "Stray"))

	out, err = f.run(t, "clean", "--remove")
	require.NoError(t, err)
	assert.Contains(t, out, "Stray removed!")
	assert.NoDirExists(t, filepath.Join(f.addonDir, "Stray"))
	assert.DirExists(t, filepath.Join(f.addonDir, "CombatMetrics", "CombatMetricsFightData"))

	out, err = f.run(t, "clean", "--remove=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to clean")
}

func TestUpdate_ManualEntries(t *testing.T) {
	f := newFixture(t,
		models.DesiredEntry{Name: "Manual"},
		models.DesiredEntry{Name: "Gone"},
	)
	f.install(t, "Manual", "## DependsOn: LibX\n")

	out, err := f.run(t, "update")
	require.NoError(t, err)
	assert.Contains(t, out, "Gone is set to be manually installed, but not present")
	assert.NotContains(t, out, "Manual is set")
	assert.Contains(t, out, "- LibX")
}

func TestVersionNote(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		current  string
		had      bool
		want     string
	}{
		{"fresh install", "", "1.0", false, ""},
		{"upgrade", "1.2", "1.10", true, " (upgraded 1.2 -> 1.10)"},
		{"downgrade", "2.0", "1.9", true, " (downgraded 2.0 -> 1.9)"},
		{"same", "1.0", "v1.0.0", true, " (unchanged)"},
		{"non semver change", "r41", "r42", true, " (r41 -> r42)"},
		{"non semver same", "r42", "r42", true, " (unchanged)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := versionNote(models.Addon{Version: tt.previous}, models.Addon{Version: tt.current}, tt.had)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCacheClear(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(os.Getenv("HOME"), ".cache", appName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.page"), []byte("x"), 0o644))

	out, err := f.run(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 cached pages")
}
