package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/equisoft-devops/provider-sql/internal/domain-adapters/gateways"
	"github.com/equisoft-devops/provider-sql/internal/domain/interfaces"
	"github.com/equisoft-devops/provider-sql/internal/domain/services"
	"github.com/equisoft-devops/provider-sql/internal/external-adapters/console"
)

func runVerify(ctx context.Context, args []string) {
	fs := pflag.NewFlagSet("verify", pflag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Log debug messages")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: xpkg-release verify [version] [options]

Inspects the published manifest list for a version (default: the resolved
VERSION) and checks that it references each target platform exactly once.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	params, err := services.LoadParams(os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		version := fs.Arg(0)
		if err := services.ValidateVersion(version); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		params.Version = version
	}

	logger := console.New(*verbose)
	ref := services.ManifestRef(params)
	artifacts := services.Artifacts(params, services.DefaultOutputDir)

	publisher := gateways.NewManifestPublisher(gateways.NewCommandRunner())
	if err := publisher.Verify(ctx, ref, artifacts); err != nil {
		logger.Error("manifest verification failed", interfaces.F("ref", ref), interfaces.F("error", err.Error()))
		os.Exit(1)
	}

	logger.Success("manifest references every target platform", interfaces.F("ref", ref))
}
