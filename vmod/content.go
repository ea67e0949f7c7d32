package vmod

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xshadowlegendx/astro-db/client"
	"github.com/xshadowlegendx/astro-db/schema"
)

// runtimeModule is the package the generated code imports its client
// constructors and table helper from.
const runtimeModule = "astro-db/runtime"

// remoteURLEnvVar overrides the managed database endpoint. It is read by the
// generated code at its own load time, never at generation time, so
// rendering stays a pure function of its inputs.
const remoteURLEnvVar = "ASTRO_DB_REMOTE_URL"

// RenderLocal renders the virtual module body for local mode. The database
// file URL is derived from rootURL plus the fixed relative path. When
// includeSeed is set, the seed invocation is emitted before any export
// statement: module evaluation is top-to-bottom, so awaiting it there
// guarantees seeds run before downstream code touches a table binding. User
// seeds arrive as one eager glob mapping; integration seeds as deferred
// import thunks.
func RenderLocal(rootURL string, tables []*schema.Table, integrationSeedPaths []string, includeSeed bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "import { createLocalDatabaseClient, asDbTable } from %s;\n", jsString(runtimeModule))
	if includeSeed {
		fmt.Fprintf(&b, "import { seedLocal } from %s;\n", jsString(runtimeModule+"/seed"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "const dbUrl = new URL(%s, %s);\n", jsString(client.LocalDBPath), jsString(rootURL))
	b.WriteString("export const db = createLocalDatabaseClient({ dbUrl: dbUrl.href });\n")

	if includeSeed {
		b.WriteString("\nawait seedLocal({\n")
		fmt.Fprintf(&b, "\tuserSeedGlob: import.meta.glob(%s, { eager: true }),\n", jsString(UserSeedGlob))
		b.WriteString("\tintegrationSeedFunctions: [")
		for i, path := range integrationSeedPaths {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "() => import(%s)", jsString(path))
		}
		b.WriteString("],\n})\n")
	}

	b.WriteString("\n")
	writeConfigReexport(&b)
	writeTableExports(&b, tables)

	return b.String()
}

// RenderRemote renders the virtual module body for remote-managed mode. The
// access token is baked in; the endpoint expression defers to an environment
// override with a fixed default, evaluated when the module itself loads.
// Seeding a remote managed database through this path is unsupported, so no
// seed logic is emitted.
func RenderRemote(token string, tables []*schema.Table) string {
	var b strings.Builder

	fmt.Fprintf(&b, "import { createRemoteDatabaseClient, asDbTable } from %s;\n\n", jsString(runtimeModule))

	b.WriteString("export const db = createRemoteDatabaseClient(\n")
	fmt.Fprintf(&b, "\t%s,\n", jsString(token))
	fmt.Fprintf(&b, "\timport.meta.env.%s ?? %s,\n", remoteURLEnvVar, jsString(client.DefaultRemoteURL))
	b.WriteString(");\n\n")

	writeConfigReexport(&b)
	writeTableExports(&b, tables)

	return b.String()
}

// writeConfigReexport re-exports the ambient runtime configuration surface.
func writeConfigReexport(b *strings.Builder) {
	fmt.Fprintf(b, "export * from %s;\n\n", jsString(runtimeModule+"/config"))
}

// writeTableExports emits one binding per table, in declaration order, built
// from the table name and its serialized definition.
func writeTableExports(b *strings.Builder, tables []*schema.Table) {
	for _, t := range tables {
		fmt.Fprintf(b, "export const %s = asDbTable(%s, %s);\n", t.Name, jsString(t.Name), jsonValue(t))
	}
}

// jsString renders a JS string literal.
func jsString(s string) string {
	return jsonValue(s)
}

// jsonValue renders any value as a JS literal via JSON. Marshaling the
// schema types cannot fail; struct field order keeps the output
// deterministic.
func jsonValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("vmod: marshal %T: %v", v, err))
	}
	return string(data)
}
