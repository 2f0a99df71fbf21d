package main

import (
	"log"
	"os"
	"runtime/debug"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	"github.com/NethServer/ns8-repomd/internal/app/repomd"
	"github.com/NethServer/ns8-repomd/internal/clients/skopeo"
	"github.com/NethServer/ns8-repomd/pkg/repodata"
)

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var inspectorFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "source-root",
		Value:   repodata.DefaultSourceRoot,
		Usage:   "Image namespace which each package's image repository is under",
		EnvVars: []string{"REPOMD_SOURCE_ROOT"},
	},
	&cli.StringFlag{
		Name:    "pins",
		Value:   repodata.PinsFile,
		Usage:   "Path of the YAML file of pinned versions",
		EnvVars: []string{"REPOMD_PINS"},
	},
	&cli.StringFlag{
		Name:    "inspector",
		Value:   inspectorSkopeo,
		Usage:   "How to inspect image registries (skopeo or crane)",
		EnvVars: []string{"REPOMD_INSPECTOR"},
	},
	&cli.StringFlag{
		Name:    "skopeo",
		Value:   skopeo.DefaultCommand,
		Usage:   "Name or path of the skopeo executable, for the skopeo inspector",
		EnvVars: []string{"REPOMD_SKOPEO"},
	},
	&cli.StringFlag{
		Name:    "platform",
		Usage:   "Platform (e.g. linux/arm64) whose image labels are read by the crane inspector",
		EnvVars: []string{"REPOMD_PLATFORM"},
	},
	&cli.BoolFlag{
		Name:    "insecure-registry",
		Usage:   "Allow the crane inspector to reach registries over plain HTTP",
		EnvVars: []string{"REPOMD_INSECURE_REGISTRY"},
	},
}

var buildFlags = append([]cli.Flag{
	&cli.StringFlag{
		Name:    "output",
		Value:   repodata.IndexFile,
		Usage:   "Path of the repository index, relative to the packages directory",
		EnvVars: []string{"REPOMD_OUTPUT"},
	},
	&cli.StringFlag{
		Name:    "remote-base",
		Value:   repomd.DefaultRemoteBase,
		Usage:   "Base URL which missing package metadata and logos are downloaded from",
		EnvVars: []string{"REPOMD_REMOTE_BASE"},
	},
	&cli.BoolFlag{
		Name:    "keep-going",
		Usage:   "Skip packages with unusable metadata and invalid pins instead of failing",
		EnvVars: []string{"REPOMD_KEEP_GOING"},
	},
}, inspectorFlags...)

var app = &cli.App{
	Name:      "repomd",
	Version:   toolVersion,
	Usage:     "Builds the repository index of a directory of NethServer packages",
	ArgsUsage: "[packages_path]",
	Flags:     buildFlags,
	Action:    buildAction,
	Commands: []*cli.Command{
		{
			Name:      "build",
			Usage:     "Writes the repository index of the packages in the directory",
			ArgsUsage: "[packages_path]",
			Flags:     buildFlags,
			Action:    buildAction,
		},
		{
			Name:      "ls-pkg",
			Aliases:   []string{"list-packages"},
			Usage:     "Lists the package directories which would be indexed",
			ArgsUsage: "[packages_path]",
			Action:    lsPkgAction,
		},
		{
			Name:      "show-versions",
			Usage:     "Describes the versions which would be published for a package",
			ArgsUsage: "package_name",
			Flags:     inspectorFlags,
			Action:    showVersionsAction,
		},
	},
	Suggest: true,
}

// Versioning

const (
	// fallbackVersion is the version reported which the tool reports itself as if its actual
	// version is unknown.
	fallbackVersion = "v0.1.0-dev"
)

var (
	toolVersion = determineVersion(buildSummary, fallbackVersion)
	// buildSummary should be overridden by ldflags, such as with GoReleaser's "Summary".
	buildSummary = ""
)

// determineVersion returns either a semver, a pseudoversion, or a Git hash based on information
// available from Go's `debug.ReadBuildInfo()`.
func determineVersion(override, fallback string) string {
	if override != "" {
		return override
	}

	const dirtySuffix = "-dirty"
	// Determine any version tags, if available
	if info, ok := debug.ReadBuildInfo(); ok &&
		info.Main.Version != "" && info.Main.Version != "(devel)" {
		v := info.Main.Version
		if versioninfo.DirtyBuild {
			v += dirtySuffix
		}
		return v
	}
	if v := versioninfo.Version; v != "unknown" && v != "(devel)" {
		if versioninfo.DirtyBuild {
			v += dirtySuffix
		}
		return v
	}

	// Fall back to whatever is available
	if r := versioninfo.Revision; r != "unknown" && r != "" {
		if versioninfo.DirtyBuild {
			r += dirtySuffix
		}
		return r
	}
	return fallback
}
