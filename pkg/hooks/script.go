package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/internal/logger"
)

// ScriptExt is the extension of hook script files under a package's
// hooks/ directory. The file's base name selects the extension point.
const ScriptExt = ".tengo"

// ScriptHook wraps a Tengo script source into a hook. The script runs with
// packageName, packageVersion, buildDir and packageDir bound, plus any
// custom Vars from the hook context. After the run the `err` variable is
// inspected: a non-nil error or non-empty string fails the hook.
func ScriptHook(name, source string) Func {
	return func(ctx context.Context, hctx Context) error {
		script := tengo.NewScript([]byte(source))
		script.SetImports(stdlib.GetModuleMap("fmt", "os", "text", "times"))

		bindings := map[string]interface{}{
			"packageName":    hctx.PackageName,
			"packageVersion": hctx.PackageVersion,
			"buildDir":       hctx.BuildDir,
			"packageDir":     hctx.PackageDir,
		}
		for k, v := range hctx.Vars {
			bindings[k] = v
		}
		for k, v := range bindings {
			if err := script.Add(k, v); err != nil {
				return errors.Wrapf(errors.ErrHookScript, "%s: bind %s: %v", name, k, err)
			}
		}

		compiled, err := script.RunContext(ctx)
		if err != nil {
			return errors.Wrapf(errors.ErrHookScript, "%s: %v", name, err)
		}

		if errVar := compiled.Get("err"); errVar != nil {
			switch v := errVar.Value().(type) {
			case error:
				return errors.Wrapf(errors.ErrHookScript, "%s: %v", name, v)
			case string:
				if v != "" {
					return errors.Wrapf(errors.ErrHookScript, "%s: %s", name, v)
				}
			}
		}
		return nil
	}
}

// LoadScripts registers every hook script found under <pkgDir>/hooks/ for
// the given package. Files with other extensions or names that do not match
// an extension point are skipped. A missing hooks directory is fine.
func LoadScripts(m *Manager, pkg, pkgDir string) error {
	hooksDir := filepath.Join(pkgDir, "hooks")
	entries, err := os.ReadDir(hooksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(errors.ErrHookLoad, "read %s: %v", hooksDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ScriptExt {
			continue
		}
		point := Point(strings.TrimSuffix(entry.Name(), ScriptExt))
		if !knownPoints[point] {
			logger.Debug("Skipping hook file with unknown point", logger.Fields{
				"package": pkg,
				"file":    entry.Name(),
			})
			continue
		}

		path := filepath.Join(hooksDir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(errors.ErrHookLoad, "read %s: %v", path, err)
		}
		m.Register(pkg, point, ScriptHook(entry.Name(), string(content)))
	}
	return nil
}
