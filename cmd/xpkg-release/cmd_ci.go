package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/equisoft-devops/provider-sql/internal/domain/services"
	"github.com/equisoft-devops/provider-sql/internal/external-adapters/yaml"
)

func runCI(args []string) {
	fs := pflag.NewFlagSet("ci", pflag.ExitOnError)
	output := fs.StringP("output", "o", "", "Write the workflow to this file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: xpkg-release ci [options]

Render the GitHub Actions workflow that publishes the provider on version
tags. The repository input comes from ECR_REPOSITORY.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  xpkg-release ci
  xpkg-release ci -o .github/workflows/publish.yaml
`)
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

	rendered, err := yaml.PublishWorkflow(params.Repository).Render()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *output == "" {
		fmt.Print(string(rendered))
		return
	}

	if err := os.WriteFile(*output, rendered, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Workflow written to %s\n", *output)
}
