// Package vmod implements the astro:db virtual module: classifying import
// requests for the reserved specifier into one of two internal identities,
// resynchronizing the local database when a seed-triggering module loads, and
// synthesizing the module source text from the current table definitions.
package vmod

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/xshadowlegendx/astro-db/client"
	"github.com/xshadowlegendx/astro-db/internal/debug"
	"github.com/xshadowlegendx/astro-db/lifecycle"
	"github.com/xshadowlegendx/astro-db/schema"
)

const (
	// VirtualModuleID is the reserved specifier application code imports.
	VirtualModuleID = "astro:db"

	// ResolvedModuleID is the plain internal identity. The \x00 prefix
	// marks the id as synthesized, following bundler convention.
	ResolvedModuleID = "\x00astro:db"

	// ResolvedSeedModuleID is the seed-bearing internal identity. It is
	// only handed to importers inside the project src directory, so a seed
	// file can never transitively import it and reseed recursively. Being
	// a distinct id, the host's module cache treats it as an independent
	// entry and never silently skips seeding through cache reuse.
	ResolvedSeedModuleID = "\x00astro:db:seed"
)

// Mode selects local development or a managed remote database. It is fixed
// for the lifetime of the process.
type Mode int

const (
	ModeLocal Mode = iota
	ModeRemote
)

// Options configures a Resolver. Tables and IntegrationSeeds are late-bound
// accessors: the surrounding build tool mutates the schema across reload
// cycles and the resolver must observe the latest version on every call.
type Options struct {
	// Root is the absolute project root.
	Root string
	// SrcDir is the project source directory. Defaults to Root/src.
	SrcDir string

	Mode Mode
	// RemoteToken is the managed database app token (remote mode only).
	RemoteToken string

	// Tables produces the current table definitions.
	Tables schema.Tables
	// IntegrationSeeds produces integration-contributed seed file paths.
	// Optional.
	IntegrationSeeds func() []string

	// Fs backs seed file discovery. Defaults to the OS filesystem.
	Fs afero.Fs

	// Client and Sync drive local schema resynchronization (local mode
	// only). The client handle is passed in explicitly so the resolver
	// stays testable with a fake.
	Client client.Client
	Sync   lifecycle.Synchronizer
}

// Resolver is the plugin-visible surface: Resolve classifies import requests
// and Load produces virtual module source text.
type Resolver struct {
	root        string
	srcDir      string
	mode        Mode
	remoteToken string
	tables      schema.Tables
	integSeeds  func() []string
	fs          afero.Fs
	client      client.Client
	sync        lifecycle.Synchronizer
}

// NewResolver creates a resolver for one build/dev session.
func NewResolver(opts Options) *Resolver {
	if opts.SrcDir == "" {
		opts.SrcDir = filepath.Join(opts.Root, "src")
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.IntegrationSeeds == nil {
		opts.IntegrationSeeds = func() []string { return nil }
	}
	return &Resolver{
		root:        opts.Root,
		srcDir:      opts.SrcDir,
		mode:        opts.Mode,
		remoteToken: opts.RemoteToken,
		tables:      opts.Tables,
		integSeeds:  opts.IntegrationSeeds,
		fs:          opts.Fs,
		client:      opts.Client,
		sync:        opts.Sync,
	}
}

// Resolve classifies an import request. It declines unless requested is the
// reserved specifier. Remote mode always yields the plain identity (seeding
// is meaningless without a local store), as does an unknown importer, so
// implicit root-level imports never pick up seeding side effects. Importers
// under the src directory get the seed-bearing identity.
func (r *Resolver) Resolve(requested, importer string) (string, bool) {
	if requested != VirtualModuleID {
		return "", false
	}
	if r.mode == ModeRemote || importer == "" {
		return ResolvedModuleID, true
	}
	if underDir(r.srcDir, importer) {
		return ResolvedSeedModuleID, true
	}
	return ResolvedModuleID, true
}

// Load produces virtual module source text for one of the two reserved
// identities, declining for anything else.
//
// Before that, as a side effect, it resynchronizes the local database when
// the incoming id is seed-triggering: either the seed-bearing identity or
// one of the conventional local seed files. A seed file's own content is the
// host's normal JS loading, not ours, but reloading it must still rebuild
// the schema. Resync errors are fatal load errors and are returned even when
// the id would otherwise be declined.
func (r *Resolver) Load(ctx context.Context, id string) (string, bool, error) {
	if r.mode == ModeLocal && r.isSeedTrigger(id) {
		debug.Debug("seed-triggering load, resynchronizing", "id", id)
		if err := r.sync.Resync(ctx, r.client, r.tables()); err != nil {
			return "", false, err
		}
	}

	switch id {
	case ResolvedModuleID:
		if r.mode == ModeRemote {
			return RenderRemote(r.remoteToken, r.tables()), true, nil
		}
		return RenderLocal(RootURL(r.root), r.tables(), r.integrationSeedPaths(), false), true, nil
	case ResolvedSeedModuleID:
		return RenderLocal(RootURL(r.root), r.tables(), r.integrationSeedPaths(), true), true, nil
	default:
		return "", false, nil
	}
}

// isSeedTrigger reports whether loading id must resynchronize the schema.
func (r *Resolver) isSeedTrigger(id string) bool {
	if id == ResolvedSeedModuleID {
		return true
	}
	return IsLocalSeedFile(id, r.root)
}

// integrationSeedPaths resolves integration-contributed seed paths relative
// to the project root at content-generation time.
func (r *Resolver) integrationSeedPaths() []string {
	raw := r.integSeeds()
	if len(raw) == 0 {
		return nil
	}
	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		paths = append(paths, projectRelative(r.root, p))
	}
	return paths
}

// RootURL returns the file URL of the project root, with a trailing slash so
// relative URL resolution in generated code lands inside the root.
func RootURL(root string) string {
	p := filepath.ToSlash(root)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return "file://" + p
}

// projectRelative maps a path to its root-relative form with a leading
// slash, the shape the host resolves against the project root.
func projectRelative(root, path string) string {
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return "/" + filepath.ToSlash(rel)
		}
		return filepath.ToSlash(path)
	}
	return "/" + strings.TrimPrefix(filepath.ToSlash(path), "/")
}

// underDir reports whether path is inside dir.
func underDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
