package repodata

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNewPackage(t *testing.T) {
	t.Parallel()
	p := NewPackage("traefik", "")
	if p.Name != "traefik" || string(p.ID) != `"traefik"` {
		t.Errorf("unexpected name %q and id %s", p.Name, p.ID)
	}
	if want := "ghcr.io/nethserver/traefik"; p.Source != want {
		t.Errorf("got source %s, want %s", p.Source, want)
	}
	if want := `{"en":"Auto-generated description for traefik"}`; string(p.Description) != want {
		t.Errorf("got description %s, want %s", p.Description, want)
	}
	if string(p.Logo) != "null" {
		t.Errorf("default logo should be null, got %s", p.Logo)
	}
	if got := NewPackage("mail", "registry.example.com/ns8"); got.Source != "registry.example.com/ns8/mail" {
		t.Errorf("unexpected source %s", got.Source)
	}
}

func TestNewPackageIsolation(t *testing.T) {
	t.Parallel()
	a := NewPackage("a", "")
	if err := a.AddScreenshot("screenshots/a.png"); err != nil {
		t.Fatal(err)
	}
	a.Categories[2] = 'X'
	a.Authors[3] = 'X'
	a.Docs[3] = 'X'

	b := NewPackage("b", "")
	if got := string(b.Screenshots); got != "[]" {
		t.Errorf("screenshots leaked across packages: %s", got)
	}
	if got := string(b.Categories); got != `["unknown"]` {
		t.Errorf("categories leaked across packages: %s", got)
	}
	if got := string(b.Authors); got != `[{"name":"unknown","email":"info@nethserver.org"}]` {
		t.Errorf("authors leaked across packages: %s", got)
	}
	if !bytes.HasPrefix(b.Docs, []byte(`{"documentation_url"`)) {
		t.Errorf("docs leaked across packages: %s", b.Docs)
	}
}

func TestPackageClone(t *testing.T) {
	t.Parallel()
	p := NewPackage("a", "")
	p.SetLogo("logo.png")
	p.Versions = []Version{{Tag: "1.0.0", Labels: map[string]string{"k": "v"}}}
	p.Extra = []Field{{Key: "x", Value: json.RawMessage(`[1]`)}}

	c := p.Clone()
	if !cmp.Equal(p, c) {
		t.Fatalf("clone differs (-want +got):\n%+v", cmp.Diff(p, c))
	}
	c.Logo[1] = 'X'
	c.Versions[0].Labels["k"] = "changed"
	c.Extra[0].Value[1] = '2'
	if string(p.Logo) != `"logo.png"` || p.Versions[0].Labels["k"] != "v" ||
		string(p.Extra[0].Value) != "[1]" {
		t.Errorf("clone shares state with the original: %+v", p)
	}
}

func TestPackageAddScreenshot(t *testing.T) {
	t.Parallel()
	for name, test := range map[string]struct {
		screenshots string
		out         string
		err         bool
	}{
		"default":  {screenshots: `[]`, out: `["screenshots/a.png"]`},
		"declared": {screenshots: `["https://example.com/x.png", 3]`, out: `["https://example.com/x.png",3,"screenshots/a.png"]`},
		"string":   {screenshots: `"none"`, err: true},
		"null":     {screenshots: `null`, err: true},
		"object":   {screenshots: `{}`, err: true},
	} {
		name, test := name, test
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p := NewPackage("dokuwiki", "")
			p.Screenshots = json.RawMessage(test.screenshots)
			err := p.AddScreenshot("screenshots/a.png")
			if test.err {
				if err == nil {
					t.Errorf("expected error adding a screenshot to %s", test.screenshots)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got := string(p.Screenshots); got != test.out {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(test.out, got))
			}
		})
	}
}

func TestPackageMergeMetadata(t *testing.T) {
	t.Parallel()
	for name, test := range map[string]struct {
		in    string
		check func(t *testing.T, p *Package)
		err   bool
	}{
		"empty-object": {
			in: `{}`,
			check: func(t *testing.T, p *Package) {
				if want := NewPackage("dokuwiki", ""); !cmp.Equal(p, want) {
					t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, p))
				}
			},
		},
		"description-replaced-wholesale": {
			in: `{"description": {"it": "Wiki"}}`,
			check: func(t *testing.T, p *Package) {
				if got, want := string(p.Description), `{"it": "Wiki"}`; got != want {
					t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got))
				}
			},
		},
		"nested-keys-kept-verbatim": {
			in: `{"authors":[{"name":"A","url":"https://a"}],` +
				`"docs":{"documentation_url":"d","terms_url":"t","bug_url":""}}`,
			check: func(t *testing.T, p *Package) {
				if got, want := string(p.Authors), `[{"name":"A","url":"https://a"}]`; got != want {
					t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got))
				}
				want := `{"documentation_url":"d","terms_url":"t","bug_url":""}`
				if got := string(p.Docs); got != want {
					t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got))
				}
			},
		},
		"values-of-any-type": {
			in: `{"categories": "infra", "logo": 42, "id": ["x"], "versions": ["1.0.0"]}`,
			check: func(t *testing.T, p *Package) {
				got := []string{string(p.Categories), string(p.Logo), string(p.ID)}
				if want := []string{`"infra"`, "42", `["x"]`}; !cmp.Equal(got, want) {
					t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got))
				}
				if len(p.Versions) != 0 {
					t.Errorf("versions were taken from the metadata: %v", p.Versions)
				}
			},
		},
		"fields-and-extras": {
			in: `{
				"name": "DokuWiki",
				"source": "ghcr.io/example/dokuwiki",
				"min_core": "2.1.0",
				"keywords": ["wiki"],
				"min_core": "2.2.0"
			}`,
			check: func(t *testing.T, p *Package) {
				if p.Name != "DokuWiki" || string(p.ID) != `"dokuwiki"` {
					t.Errorf("unexpected name %q and id %s", p.Name, p.ID)
				}
				if p.Source != "ghcr.io/example/dokuwiki" {
					t.Errorf("unexpected source %s", p.Source)
				}
				want := []Field{
					{Key: "min_core", Value: json.RawMessage(`"2.2.0"`)},
					{Key: "keywords", Value: json.RawMessage(`["wiki"]`)},
				}
				if !cmp.Equal(p.Extra, want) {
					t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, p.Extra))
				}
			},
		},
		"null-logo": {
			in: `{"logo": null}`,
			check: func(t *testing.T, p *Package) {
				if string(p.Logo) != "null" {
					t.Errorf("expected null logo, got %s", p.Logo)
				}
			},
		},
		"not-an-object": {
			in:  `["dokuwiki"]`,
			err: true,
		},
		"null": {
			in:  `null`,
			err: true,
		},
		"malformed": {
			in:  `{"name": `,
			err: true,
		},
		"malformed-nested": {
			in:  `{"docs": {"code_url": tru}}`,
			err: true,
		},
		"trailing-data": {
			in:  `{} {}`,
			err: true,
		},
		"non-string-name": {
			in:  `{"name": ["dokuwiki"]}`,
			err: true,
		},
		"null-source": {
			in:  `{"source": null}`,
			err: true,
		},
	} {
		name, test := name, test
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p := NewPackage("dokuwiki", "")
			err := p.MergeMetadata([]byte(test.in))
			if test.err {
				if err == nil {
					t.Errorf("expected error merging %s", test.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			test.check(t, p)
		})
	}
}

func TestPackageMarshalJSON(t *testing.T) {
	t.Parallel()
	p := NewPackage("dokuwiki", "")
	metadata := `{
		"zeta": {"b": 1},
		"authors": [{"name": "Zoë", "url": "https://a"}],
		"docs": {"documentation_url": "d", "terms_url": "t", "bug_url": ""},
		"alpha": "<b>&</b>"
	}`
	if err := p.MergeMetadata([]byte(metadata)); err != nil {
		t.Fatal(err)
	}
	p.SetLogo("logo.png")
	if err := p.AddScreenshot("screenshots/a.png"); err != nil {
		t.Fatal(err)
	}
	p.Versions = []Version{{Tag: "1.0.0", Labels: map[string]string{"a": "b"}}}

	got, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"dokuwiki","description":{"en":"Auto-generated description for dokuwiki"},` +
		`"logo":"logo.png","screenshots":["screenshots/a.png"],"categories":["unknown"],` +
		`"authors":[{"name":"Zo\u00eb","url":"https://a"}],` +
		`"docs":{"documentation_url":"d","terms_url":"t","bug_url":""},` +
		`"source":"ghcr.io/nethserver/dokuwiki",` +
		`"versions":[{"tag":"1.0.0","testing":false,"labels":{"a":"b"}}],"id":"dokuwiki",` +
		`"zeta":{"b":1},"alpha":"<b>&</b>"}`

	buf := &bytes.Buffer{}
	if err = (Index{p}).Encode(buf); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "["+want+"]"; got != want {
		t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got))
	}

	var decoded, expected any
	if err = json.Unmarshal(got, &decoded); err != nil {
		t.Fatal(err)
	}
	if err = json.Unmarshal([]byte(want), &expected); err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(decoded, expected, cmpopts.EquateEmpty()) {
		t.Errorf("diff (-want +got):\n%+v", cmp.Diff(expected, decoded))
	}
}

func TestEscapeNonASCII(t *testing.T) {
	t.Parallel()
	for name, test := range map[string]struct {
		in  string
		out string
	}{
		"ascii":       {in: `{"a":"b\n"}`, out: `{"a":"b\n"}`},
		"latin":       {in: `"Zoë"`, out: `"Zo\u00eb"`},
		"cjk":         {in: `"日本"`, out: `"\u65e5\u672c"`},
		"astral":      {in: `"😀"`, out: `"\ud83d\ude00"`},
		"pre-escaped": {in: `"\u00e9é"`, out: `"\u00e9\u00e9"`},
	} {
		name, test := name, test
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := string(escapeNonASCII([]byte(test.in))); got != test.out {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(test.out, got))
			}
		})
	}
}

func TestIndex(t *testing.T) {
	t.Parallel()
	var idx Index
	idx, added := idx.Add(NewPackage("empty", ""))
	if added || len(idx) != 0 {
		t.Errorf("package without versions was added to the index")
	}
	p := NewPackage("full", "")
	p.Versions = []Version{{Tag: "1.0.0"}}
	if idx, added = idx.Add(p); !added || len(idx) != 1 {
		t.Errorf("package with versions wasn't added to the index")
	}

	buf := &bytes.Buffer{}
	if err := (Index(nil)).Encode(buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[]" {
		t.Errorf("empty index encoded as %q", got)
	}
}
