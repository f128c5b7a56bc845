package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/equisoft-devops/provider-sql/internal/domain/services"
)

func runParams(args []string) {
	fs := pflag.NewFlagSet("params", pflag.ExitOnError)
	outputDir := fs.String("output-dir", services.DefaultOutputDir, "Directory the build drops package files into")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: xpkg-release params [options]

Print the release parameters resolved from the environment, together with
the package paths, image tags and manifest reference derived from them.

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

	fmt.Printf("%-20s %s\n", "version:", params.Version)
	fmt.Printf("%-20s %s\n", "registry:", params.Registry)
	fmt.Printf("%-20s %s\n", "repository:", params.Repository)
	fmt.Printf("%-20s %s\n", "region:", params.Region)
	fmt.Printf("%-20s %s\n", "profile:", params.Profile)
	fmt.Printf("%-20s %s\n", "up version:", params.Tool.Version)
	fmt.Printf("%-20s %s\n", "up path:", params.Tool.Path)
	fmt.Println()

	for _, artifact := range services.Artifacts(params, *outputDir) {
		fmt.Printf("%-20s %s\n", artifact.Platform+":", artifact.Path)
		fmt.Printf("%-20s %s\n", "", artifact.Ref)
	}
	fmt.Println()
	fmt.Printf("%-20s %s\n", "manifest:", services.ManifestRef(params))
}
