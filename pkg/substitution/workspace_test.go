package substitution

import (
	"os"
	"path/filepath"
	"testing"
)

// writeManifest creates dir with a package.xml declaring name.
func writeManifest(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := `<?xml version="1.0"?>
<package format="3">
  <name>` + name + `</name>
  <version>0.1.0</version>
</package>
`
	if err := os.WriteFile(filepath.Join(dir, "package.xml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
}

// fakeWorkspace builds ws/src with two packages and returns the workspace
// root plus a launch-file path inside pkg_a.
func fakeWorkspace(t *testing.T) (string, string) {
	t.Helper()
	ws := t.TempDir()
	writeManifest(t, filepath.Join(ws, "src", "pkg_a"), "pkg_a")
	writeManifest(t, filepath.Join(ws, "src", "nested", "pkg_b"), "pkg_b")

	launchDir := filepath.Join(ws, "src", "pkg_a", "launch")
	if err := os.MkdirAll(launchDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return ws, filepath.Join(launchDir, "demo.launch.yaml")
}

func TestFindPackageInWorkspace(t *testing.T) {
	ws, start := fakeWorkspace(t)

	tests := []struct {
		pkg  string
		want string
	}{
		{"pkg_a", filepath.Join(ws, "src", "pkg_a")},
		{"pkg_b", filepath.Join(ws, "src", "nested", "pkg_b")},
	}
	for _, tt := range tests {
		got, ok := FindPackageInWorkspace(start, tt.pkg)
		if !ok {
			t.Errorf("package %q not found", tt.pkg)
			continue
		}
		if got != tt.want {
			t.Errorf("package %q at %q, want %q", tt.pkg, got, tt.want)
		}
	}

	if _, ok := FindPackageInWorkspace(start, "pkg_unknown"); ok {
		t.Error("found a package that does not exist")
	}
}

func TestFindPackageSkipsColconOutput(t *testing.T) {
	ws, start := fakeWorkspace(t)
	writeManifest(t, filepath.Join(ws, "src", "build", "pkg_c"), "pkg_c")

	if _, ok := FindPackageInWorkspace(start, "pkg_c"); ok {
		t.Error("discovery descended into a build directory")
	}
}

func TestFindPackageOutsideWorkspace(t *testing.T) {
	start := filepath.Join(t.TempDir(), "demo.launch.yaml")
	if _, ok := FindPackageInWorkspace(start, "pkg_a"); ok {
		t.Error("found a package outside any workspace")
	}
}

func TestResolveWorkspaceFallback(t *testing.T) {
	ws, start := fakeWorkspace(t)
	r := &Resolver{Index: NoIndex{}}

	resolved, problems := r.Resolve("$(find-pkg-share pkg_b)/config/x.yaml", start)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if want := filepath.Join(ws, "src", "nested", "pkg_b") + "/config/x.yaml"; resolved != want {
		t.Errorf("resolved = %q, want %q", resolved, want)
	}
}
