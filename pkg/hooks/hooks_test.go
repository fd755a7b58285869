package hooks_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/hooks"
	"github.com/forgelabs/crossforge/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllExecutesInRegistrationOrder(t *testing.T) {
	m := hooks.NewManager()
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		m.Register("zlib", hooks.PostBuild, func(ctx context.Context, hctx hooks.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, m.RunAll(context.Background(), "zlib", hooks.PostBuild, hooks.Context{}))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestRunAllFirstFailureAborts(t *testing.T) {
	m := hooks.NewManager()
	var ran []int
	m.Register("zlib", hooks.PrePatch, func(ctx context.Context, hctx hooks.Context) error {
		ran = append(ran, 0)
		return nil
	})
	m.Register("zlib", hooks.PrePatch, func(ctx context.Context, hctx hooks.Context) error {
		ran = append(ran, 1)
		return fmt.Errorf("boom")
	})
	m.Register("zlib", hooks.PrePatch, func(ctx context.Context, hctx hooks.Context) error {
		ran = append(ran, 2)
		return nil
	})

	err := m.RunAll(context.Background(), "zlib", hooks.PrePatch, hooks.Context{})
	require.ErrorIs(t, err, errors.ErrHookFailed)
	assert.Equal(t, []int{0, 1}, ran)
}

func TestRunAllNoHooksIsNoop(t *testing.T) {
	m := hooks.NewManager()
	assert.NoError(t, m.RunAll(context.Background(), "zlib", hooks.PostExtract, hooks.Context{}))
}

func TestRunAllScopedToPackageAndPoint(t *testing.T) {
	m := hooks.NewManager()
	called := false
	m.Register("zlib", hooks.PostBuild, func(ctx context.Context, hctx hooks.Context) error {
		called = true
		return nil
	})

	require.NoError(t, m.RunAll(context.Background(), "ncurses", hooks.PostBuild, hooks.Context{}))
	require.NoError(t, m.RunAll(context.Background(), "zlib", hooks.PostPatch, hooks.Context{}))
	assert.False(t, called)
}

func TestScriptHookBindsContext(t *testing.T) {
	fn := hooks.ScriptHook("check.tengo", `
		err := ""
		if packageName != "zlib" {
			err = "wrong name: " + packageName
		}
		if packageVersion != "1.3.1" {
			err = "wrong version"
		}
		if buildDir == "" || custom != "extra" {
			err = "missing binding"
		}
	`)

	require.NoError(t, fn(context.Background(), hooks.Context{
		PackageName:    "zlib",
		PackageVersion: "1.3.1",
		BuildDir:       "/work/build/zlib-1.3.1",
		Vars:           map[string]interface{}{"custom": "extra"},
	}))
}

func TestScriptHookErrVariableFails(t *testing.T) {
	fn := hooks.ScriptHook("fail.tengo", `err := "staging tree is missing"`)
	err := fn(context.Background(), hooks.Context{PackageName: "zlib"})
	require.ErrorIs(t, err, errors.ErrHookScript)
	assert.Contains(t, err.Error(), "staging tree is missing")
}

func TestScriptHookRuntimeErrorFails(t *testing.T) {
	fn := hooks.ScriptHook("broken.tengo", `no_such_function()`)
	err := fn(context.Background(), hooks.Context{})
	assert.ErrorIs(t, err, errors.ErrHookScript)
}

func TestLoadScripts(t *testing.T) {
	pkgDir := t.TempDir()
	hooksDir := filepath.Join(pkgDir, "hooks")
	require.NoError(t, os.MkdirAll(hooksDir, 0o755))

	writeScript := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(hooksDir, name), []byte(body), 0o644))
	}
	writeScript("post-build.tengo", `err := ""`)
	writeScript("pre-configure.tengo", `err := ""`)
	writeScript("not-a-point.tengo", `err := "never runs"`)
	writeScript("README.md", "docs, not a hook")

	m := hooks.NewManager()
	require.NoError(t, hooks.LoadScripts(m, "zlib", pkgDir))

	assert.Equal(t, 1, m.Count("zlib", hooks.PostBuild))
	assert.Equal(t, 1, m.Count("zlib", hooks.PreConfigure))
	assert.Equal(t, 0, m.Count("zlib", hooks.Point("not-a-point")))
}

func TestLoadScriptsMissingDirIsFine(t *testing.T) {
	m := hooks.NewManager()
	assert.NoError(t, hooks.LoadScripts(m, "zlib", t.TempDir()))
}

func TestStagePointMapping(t *testing.T) {
	post, ok := hooks.PostPoint(model.StageSource)
	require.True(t, ok)
	assert.Equal(t, hooks.PostDownload, post)

	post, ok = hooks.PostPoint(model.StageRsync)
	require.True(t, ok)
	assert.Equal(t, hooks.PostExtract, post)

	pre, ok := hooks.PrePoint(model.StagePatch)
	require.True(t, ok)
	assert.Equal(t, hooks.PrePatch, pre)

	_, ok = hooks.PrePoint(model.StageBuild)
	assert.False(t, ok)
	_, ok = hooks.PostPoint(model.StageDirClean)
	assert.False(t, ok)
}
