package repomd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NethServer/ns8-repomd/pkg/repodata"
)

func TestWriteIndex(t *testing.T) {
	t.Parallel()
	outputPath := filepath.Join(t.TempDir(), repodata.IndexFile)
	writeFile(t, outputPath, []byte(`[{"stale": true}]`))

	pkg := repodata.NewPackage("traefik", "")
	pkg.Versions = []repodata.Version{{Tag: "1.0.0", Labels: map[string]string{"a": "b"}}}
	if err := WriteIndex(outputPath, repodata.Index{pkg}); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"name":"traefik","description":{"en":"Auto-generated description for traefik"},` +
		`"logo":null,"screenshots":[],"categories":["unknown"],` +
		`"authors":[{"name":"unknown","email":"info@nethserver.org"}],` +
		`"docs":{"documentation_url":"https://docs.nethserver.org",` +
		`"bug_url":"https://github.com/NethServer/dev","code_url":"https://github.com/NethServer/"},` +
		`"source":"ghcr.io/nethserver/traefik",` +
		`"versions":[{"tag":"1.0.0","testing":false,"labels":{"a":"b"}}],"id":"traefik"}]`
	if string(got) != want {
		t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, string(got)))
	}
	if _, err = os.Stat(outputPath + ".tmp"); err == nil {
		t.Errorf("temporary index file was left behind")
	}
}

func TestWriteIndexFailure(t *testing.T) {
	t.Parallel()
	outputPath := filepath.Join(t.TempDir(), "missing", repodata.IndexFile)
	if err := WriteIndex(outputPath, nil); err == nil {
		t.Errorf("expected error writing into a missing directory")
	}
}
