package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/NethServer/ns8-repomd/internal/app/repomd"
	fcli "github.com/NethServer/ns8-repomd/internal/clients/cli"
	"github.com/NethServer/ns8-repomd/internal/clients/crane"
	"github.com/NethServer/ns8-repomd/internal/clients/skopeo"
	"github.com/NethServer/ns8-repomd/pkg/repodata"
)

const (
	inspectorSkopeo = "skopeo"
	inspectorCrane  = "crane"
)

func packagesPath(c *cli.Context) string {
	if root := c.Args().First(); root != "" {
		return root
	}
	return "."
}

func makeInspector(c *cli.Context) (repomd.Inspector, error) {
	switch inspector := c.String("inspector"); inspector {
	case inspectorSkopeo:
		return skopeo.NewClient(c.String("skopeo")), nil
	case inspectorCrane:
		client, err := crane.NewClient(c.String("platform"), c.Bool("insecure-registry"))
		if err != nil {
			return nil, errors.Wrap(err, "couldn't make registry client")
		}
		return client, nil
	default:
		return nil, errors.Errorf(
			"unknown inspector %s (must be %s or %s)", inspector, inspectorSkopeo, inspectorCrane,
		)
	}
}

// loadPins loads the configured pins. Pins are optional, so a file which can't be loaded is only
// reported.
func loadPins(c *cli.Context, reporter *fcli.Reporter) repodata.Pins {
	pinsPath := c.String("pins")
	pins, err := repodata.LoadPins(pinsPath)
	if err != nil {
		reporter.Warnf("while parsing %s: %s", pinsPath, err)
		return repodata.Pins{}
	}
	return pins
}

func makeBuilder(c *cli.Context, reporter *fcli.Reporter) (*repomd.Builder, error) {
	inspector, err := makeInspector(c)
	if err != nil {
		return nil, err
	}
	return &repomd.Builder{
		Config: repomd.Config{
			SourceRoot: c.String("source-root"),
			RemoteBase: c.String("remote-base"),
			KeepGoing:  c.Bool("keep-going"),
		},
		Inspector: inspector,
		Pins:      loadPins(c, reporter),
		HTTP:      http.DefaultClient,
		Reporter:  reporter,
	}, nil
}

// build

func buildAction(c *cli.Context) error {
	reporter := fcli.NewReporter(os.Stderr)
	builder, err := makeBuilder(c, reporter)
	if err != nil {
		return err
	}

	root := packagesPath(c)
	index, err := builder.Build(c.Context, root)
	if err != nil {
		return errors.Wrapf(err, "couldn't build repository index of %s", root)
	}
	outputPath := filepath.Join(root, c.String("output"))
	if err = repomd.WriteIndex(outputPath, index); err != nil {
		return errors.Wrapf(err, "couldn't write repository index to %s", outputPath)
	}
	reporter.Printf("Wrote %d packages to %s", len(index), outputPath)
	return nil
}

// ls-pkg

func lsPkgAction(c *cli.Context) error {
	names, err := repomd.ListPackages(packagesPath(c))
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

// show-versions

func showVersionsAction(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return errors.New("a package name is required")
	}
	reporter := fcli.NewReporter(os.Stderr)
	builder, err := makeBuilder(c, reporter)
	if err != nil {
		return err
	}

	source := repodata.NewPackage(name, builder.Config.SourceRoot).Source
	versions, err := builder.ResolveVersions(c.Context, source, builder.Pins[name])
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return errors.Errorf("no versions found for %s", source)
	}
	fmt.Printf("Versions of %s:\n", source)
	return fcli.FprintYaml(1, os.Stdout, versions)
}
