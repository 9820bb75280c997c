// Package corpus resolves fully qualified interface names to their
// disassembled smali files inside a corpus of decompiled framework
// classes (typically the baksmali output trees of framework.jar,
// services.jar and friends).
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Resolver is implemented by anything that can locate the disassembled
// source artifact for a fully qualified interface name. An empty path
// with a nil error means the name is unresolved (native-only service or
// stripped class).
type Resolver interface {
	Resolve(fqn string) (string, error)
}

// errFound stops a walk early once the first match is known.
var errFound = errors.New("found")

// FSResolver resolves names by walking a corpus root on disk. Multiple
// jars disassemble into sibling trees under the root; lexical walk order
// makes "first match wins" deterministic.
type FSResolver struct {
	Root string
}

// Resolve maps android.app.IActivityManager to the first
// .../android/app/IActivityManager.smali under the root. A miss returns
// ("", nil), never an error.
func (r FSResolver) Resolve(fqn string) (string, error) {
	if fqn == "" {
		return "", nil
	}
	rel := filepath.FromSlash(strings.ReplaceAll(fqn, ".", "/")) + ".smali"

	var match string
	err := filepath.WalkDir(r.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, string(filepath.Separator)+rel) || path == filepath.Join(r.Root, rel) {
			match = path
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", fmt.Errorf("resolve %s: %w", fqn, err)
	}

	return match, nil
}

// StubPaths derives the server-side and client-side companion artifacts
// from a resolved interface path by convention: drop the extension,
// append $Stub and $Stub$Proxy.
func StubPaths(interfacePath string) (stub, proxy string) {
	ext := filepath.Ext(interfacePath)
	base := strings.TrimSuffix(interfacePath, ext)
	return base + "$Stub" + ext, base + "$Stub$Proxy" + ext
}
