package prompt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplatesAreValid(t *testing.T) {
	tpl := Default()
	require.NoError(t, tpl.Validate())
	assert.Contains(t, tpl.User, "手心")
	assert.Contains(t, tpl.User, "手背")
	assert.Contains(t, tpl.System, "少数派获胜")
}

func TestRenderReplacesNonce(t *testing.T) {
	out := Default().Render("abc - 提示: 大多数人会选手心")
	assert.NotContains(t, out, NoncePlaceholder)
	assert.Contains(t, out, "随机种子: abc - 提示: 大多数人会选手心。")
}

func TestValidateRejectsBrokenTemplates(t *testing.T) {
	noNonce := Default()
	noNonce.User = "请回复手心或手背"
	assert.Error(t, noNonce.Validate())

	noToken := Default()
	noToken.User = "seed " + NoncePlaceholder + " 请回复手心"
	assert.Error(t, noToken.Validate())

	noHint := Default()
	noHint.Hints.Back = ""
	assert.Error(t, noHint.Validate())
}

func writePromptFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadFileOverlaysDefaults(t *testing.T) {
	path := writePromptFile(t, "system: 只是一个测试\nhints:\n  front: 选手心的人更多\n")
	tpl, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "只是一个测试", tpl.System)
	assert.Equal(t, "选手心的人更多", tpl.Hints.Front)
	assert.Equal(t, Default().Hints.Back, tpl.Hints.Back)
	assert.Equal(t, Default().User, tpl.User)
}

func TestReadFileEmptyKeepsDefaults(t *testing.T) {
	tpl, err := ReadFile(writePromptFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), tpl)
}

func TestReadFileRejectsUnknownFields(t *testing.T) {
	_, err := ReadFile(writePromptFile(t, "sytem: typo\n"))
	assert.ErrorContains(t, err, "parse prompt file failed")
}

func TestRegistryBuiltin(t *testing.T) {
	r, err := NewRegistry("")
	require.NoError(t, err)
	snap := r.Snapshot()
	assert.Equal(t, int64(1), snap.Version)
	assert.Equal(t, "builtin", snap.Source)
	assert.Equal(t, Default(), snap.Templates)
	assert.NoError(t, r.Reload())
	assert.NoError(t, r.Close())
}

func TestRegistryReloadKeepsLastGoodSnapshot(t *testing.T) {
	path := writePromptFile(t, "system: 第一版\n")
	r, err := NewRegistry(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	first := r.Snapshot()
	assert.Equal(t, "第一版", first.Templates.System)

	require.NoError(t, os.WriteFile(path, []byte("system: 第二版\n"), 0o644))
	require.NoError(t, r.Reload())
	second := r.Snapshot()
	assert.Equal(t, "第二版", second.Templates.System)
	assert.Greater(t, second.Version, first.Version)
	assert.Equal(t, "第一版", first.Templates.System, "earlier snapshots are unaffected")

	require.NoError(t, os.WriteFile(path, []byte("user: no placeholder\n"), 0o644))
	assert.Error(t, r.Reload())
	assert.Equal(t, "第二版", r.Snapshot().Templates.System)
}

func TestNewRegistryMissingFile(t *testing.T) {
	_, err := NewRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRegistryWatchesFile(t *testing.T) {
	path := writePromptFile(t, "system: 第一版\n")
	r, err := NewRegistry(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	first := r.Snapshot()

	require.NoError(t, os.WriteFile(path, []byte("system: 第二版\n"), 0o644))
	assert.Eventually(t, func() bool {
		return r.Snapshot().Templates.System == "第二版"
	}, 3*time.Second, 20*time.Millisecond)
	assert.Greater(t, r.Snapshot().Version, first.Version)

	require.NoError(t, os.WriteFile(path, []byte("user: no placeholder\n"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, "第二版", r.Snapshot().Templates.System, "invalid edits keep the last good snapshot")
}

func TestRegistryCloseStopsWatching(t *testing.T) {
	path := writePromptFile(t, "system: 第一版\n")
	r, err := NewRegistry(path)
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	version := r.Snapshot().Version

	require.NoError(t, os.WriteFile(path, []byte("system: 第二版\n"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, version, r.Snapshot().Version)
	assert.Equal(t, "第一版", r.Snapshot().Templates.System)
}
