package vmod

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/xshadowlegendx/astro-db/client"
	"github.com/xshadowlegendx/astro-db/schema"
)

// fakeSync counts resynchronize calls.
type fakeSync struct {
	calls int
	err   error
}

func (f *fakeSync) Resync(ctx context.Context, c client.Client, tables []*schema.Table) error {
	f.calls++
	return f.err
}

func testRoot() string {
	return filepath.FromSlash("/project")
}

func newTestResolver(mode Mode, sync *fakeSync) *Resolver {
	tables := schema.MustParseString("config.adb", "table Author {\n\tid number @id\n\tname text\n}")
	return NewResolver(Options{
		Root:        testRoot(),
		Mode:        mode,
		RemoteToken: "tok-123",
		Tables:      schema.Fixed(tables),
		Fs:          afero.NewMemMapFs(),
		Sync:        sync,
	})
}

func TestResolve(t *testing.T) {
	root := testRoot()
	tests := []struct {
		name      string
		mode      Mode
		requested string
		importer  string
		wantID    string
		wantOK    bool
	}{
		{
			name:      "declines other specifiers",
			mode:      ModeLocal,
			requested: "astro:content",
			importer:  filepath.Join(root, "src", "page.ts"),
			wantOK:    false,
		},
		{
			name:      "src importer gets seed-bearing id",
			mode:      ModeLocal,
			requested: VirtualModuleID,
			importer:  filepath.Join(root, "src", "pages", "index.ts"),
			wantID:    ResolvedSeedModuleID,
			wantOK:    true,
		},
		{
			name:      "importer outside src gets plain id",
			mode:      ModeLocal,
			requested: VirtualModuleID,
			importer:  filepath.Join(root, "db", "seed.ts"),
			wantID:    ResolvedModuleID,
			wantOK:    true,
		},
		{
			name:      "unknown importer defaults to plain id",
			mode:      ModeLocal,
			requested: VirtualModuleID,
			importer:  "",
			wantID:    ResolvedModuleID,
			wantOK:    true,
		},
		{
			name:      "remote mode always plain",
			mode:      ModeRemote,
			requested: VirtualModuleID,
			importer:  filepath.Join(root, "src", "pages", "index.ts"),
			wantID:    ResolvedModuleID,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(tt.mode, &fakeSync{})
			id, ok := r.Resolve(tt.requested, tt.importer)
			if ok != tt.wantOK {
				t.Fatalf("Resolve() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("Resolve() id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestLoadPlainDoesNotResync(t *testing.T) {
	sync := &fakeSync{}
	r := newTestResolver(ModeLocal, sync)

	source, ok, err := r.Load(context.Background(), ResolvedModuleID)
	if err != nil || !ok {
		t.Fatalf("Load() = ok %v, err %v", ok, err)
	}
	if sync.calls != 0 {
		t.Errorf("resync called %d times, want 0", sync.calls)
	}
	if !strings.Contains(source, "export const Author") {
		t.Error("source missing table export")
	}
}

func TestLoadSeedBearingResyncs(t *testing.T) {
	sync := &fakeSync{}
	r := newTestResolver(ModeLocal, sync)

	source, ok, err := r.Load(context.Background(), ResolvedSeedModuleID)
	if err != nil || !ok {
		t.Fatalf("Load() = ok %v, err %v", ok, err)
	}
	if sync.calls != 1 {
		t.Errorf("resync called %d times, want 1", sync.calls)
	}
	if !strings.Contains(source, "seedLocal") {
		t.Error("seed-bearing source missing seed invocation")
	}
}

func TestLoadSeedFileResyncsAndDeclines(t *testing.T) {
	sync := &fakeSync{}
	r := newTestResolver(ModeLocal, sync)
	seedID := filepath.Join(testRoot(), "db", "seed.ts") + "?t=12345"

	_, ok, err := r.Load(context.Background(), seedID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok {
		t.Error("Load() ok = true, want decline: seed file content is the host's job")
	}
	if sync.calls != 1 {
		t.Errorf("resync called %d times, want 1", sync.calls)
	}
}

func TestLoadResyncErrorIsFatal(t *testing.T) {
	errBoom := errors.New("batch failed")
	sync := &fakeSync{err: errBoom}
	r := newTestResolver(ModeLocal, sync)

	_, _, err := r.Load(context.Background(), ResolvedSeedModuleID)
	if !errors.Is(err, errBoom) {
		t.Errorf("Load() error = %v, want %v", err, errBoom)
	}
}

func TestLoadUnknownIDDeclines(t *testing.T) {
	sync := &fakeSync{}
	r := newTestResolver(ModeLocal, sync)

	_, ok, err := r.Load(context.Background(), filepath.Join(testRoot(), "src", "page.ts"))
	if err != nil || ok {
		t.Errorf("Load() = ok %v, err %v, want decline", ok, err)
	}
	if sync.calls != 0 {
		t.Errorf("resync called %d times, want 0", sync.calls)
	}
}

func TestLoadRemoteIgnoresSeedTriggers(t *testing.T) {
	sync := &fakeSync{}
	r := newTestResolver(ModeRemote, sync)

	source, ok, err := r.Load(context.Background(), ResolvedModuleID)
	if err != nil || !ok {
		t.Fatalf("Load() = ok %v, err %v", ok, err)
	}
	if sync.calls != 0 {
		t.Errorf("resync called %d times, want 0", sync.calls)
	}
	if !strings.Contains(source, "createRemoteDatabaseClient") {
		t.Error("remote source missing remote client constructor")
	}
}

// The resolver must observe schema edits through the accessor instead of a
// captured snapshot.
func TestLoadObservesLatestTables(t *testing.T) {
	tables := schema.MustParseString("config.adb", "table Author {\n\tid number @id\n}")
	r := NewResolver(Options{
		Root:   testRoot(),
		Mode:   ModeLocal,
		Tables: func() []*schema.Table { return tables },
		Fs:     afero.NewMemMapFs(),
		Sync:   &fakeSync{},
	})

	source, _, err := r.Load(context.Background(), ResolvedModuleID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if strings.Contains(source, "export const Post") {
		t.Fatal("source contains table that was not defined yet")
	}

	tables = schema.MustParseString("config.adb", "table Author {\n\tid number @id\n}\ntable Post {\n\tid number @id\n}")
	source, _, err = r.Load(context.Background(), ResolvedModuleID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(source, "export const Post") {
		t.Error("source missing table added after resolver construction")
	}
}

func TestIsLocalSeedFile(t *testing.T) {
	root := testRoot()
	tests := []struct {
		id   string
		want bool
	}{
		{filepath.Join(root, "db", "seed.ts"), true},
		{filepath.Join(root, "db", "seed.mjs"), true},
		{filepath.Join(root, "db", "seed.ts") + "?t=99", true},
		{filepath.Join(root, "db", "other.ts"), false},
		{filepath.Join(root, "src", "seed.ts"), false},
		{filepath.Join(root, "db", "nested", "seed.ts"), false},
	}
	for _, tt := range tests {
		if got := IsLocalSeedFile(tt.id, root); got != tt.want {
			t.Errorf("IsLocalSeedFile(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestLocalSeedFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	root := testRoot()
	seed := filepath.Join(root, "db", "seed.ts")
	if err := afero.WriteFile(fsys, seed, []byte("export default async () => {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := LocalSeedFiles(fsys, root)
	if len(got) != 1 || got[0] != seed {
		t.Errorf("LocalSeedFiles() = %v, want [%s]", got, seed)
	}
}
