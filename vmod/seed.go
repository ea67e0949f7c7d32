package vmod

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SeedDir is the reserved per-project database directory, relative to the
// project root.
const SeedDir = "db"

// UserSeedGlob is the statically analyzable glob the generated module uses
// to eagerly load user seed files. Eager glob loading requires static,
// enumerable paths; integration-contributed seeds are dynamic and travel as
// deferred import thunks instead.
const UserSeedGlob = "/db/seed.{js,mjs,mts,ts}"

// localSeedNames are the conventional seed file names under SeedDir.
var localSeedNames = []string{"seed.js", "seed.mjs", "seed.mts", "seed.ts"}

// IsLocalSeedFile reports whether a module id names one of the conventional
// seed files under root. Ids may carry a bundler query suffix (?t=...),
// which is ignored. The match is by name, not existence: a seed file being
// loaded by the host necessarily exists.
func IsLocalSeedFile(id, root string) bool {
	path := id
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = filepath.Clean(path)

	if filepath.Dir(path) != filepath.Join(root, SeedDir) {
		return false
	}
	base := filepath.Base(path)
	for _, name := range localSeedNames {
		if base == name {
			return true
		}
	}
	return false
}

// LocalSeedFiles returns the conventional seed files that exist under root,
// in convention order.
func LocalSeedFiles(fsys afero.Fs, root string) []string {
	var files []string
	for _, name := range localSeedNames {
		path := filepath.Join(root, SeedDir, name)
		if ok, err := afero.Exists(fsys, path); err == nil && ok {
			files = append(files, path)
		}
	}
	return files
}
