// Package main provides the xpkg-release CLI, which builds the provider's
// .xpkg packages and publishes them to ECR under a multi-arch manifest.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/equisoft-devops/provider-sql/internal/domain-adapters/gateways"
	orchestrators "github.com/equisoft-devops/provider-sql/internal/domain-orchestrators"
	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
	"github.com/equisoft-devops/provider-sql/internal/domain/services"
	"github.com/equisoft-devops/provider-sql/internal/external-adapters/console"
	"github.com/equisoft-devops/provider-sql/internal/external-adapters/ecr"
	"github.com/equisoft-devops/provider-sql/internal/external-adapters/gpg"
)

func runRun(ctx context.Context, args []string) {
	fs := pflag.NewFlagSet("run", pflag.ExitOnError)
	outputDir := fs.String("output-dir", services.DefaultOutputDir, "Directory the build drops package files into")
	reportFile := fs.String("report", "", "Write a JSON run report to this file")
	verbose := fs.Bool("verbose", false, "Log debug messages")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: xpkg-release run [options]

Runs the release pipeline: check prerequisites, provision the up CLI, clean
the workspace, sync submodules, build the packages for every target platform,
authenticate to the registry, push them, and publish the multi-arch manifest.

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

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var verifier gateways.SignatureVerifier
	if params.Tool.SignatureURL != "" {
		v := gpg.NewVerifier()
		if err := v.LoadKeyringFile(params.Tool.KeyringPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		verifier = v
	}

	runner := gateways.NewCommandRunner()
	orchestrator := orchestrators.NewReleaseOrchestrator(
		params,
		gateways.NewPrerequisiteChecker(workDir),
		gateways.NewToolProvisioner(params.Tool, verifier),
		gateways.NewWorkspaceCleaner(runner, workDir, *outputDir, "*"+entities.PackageName+"*"),
		gateways.NewSubmoduleSyncer(runner, workDir),
		gateways.NewArtifactBuilder(runner, workDir),
		gateways.NewRegistryAuthenticator(runner, ecr.NewTokenSource(params.Region, params.Profile), params.Registry),
		gateways.NewPackagePusher(runner, params.Tool.Path),
		gateways.NewManifestPublisher(runner),
		console.New(*verbose),
		orchestrators.ReleaseOrchestratorConfig{OutputDir: *outputDir},
	)

	report := orchestrator.Run(ctx)

	if *reportFile != "" {
		writeReport(*reportFile, report)
	}

	printSummary(report)

	if !report.Succeeded() {
		os.Exit(1)
	}
}

// writeReport persists the run report. Failures only warn: the report is a
// record of a release that already happened.
func writeReport(path string, report *entities.RunReport) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to marshal JSON report: %v\n", err)
		return
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write JSON report: %v\n", err)
	}
}

func printSummary(report *entities.RunReport) {
	fmt.Printf("\nRelease %s: %s\n", report.Version, report.State)
	for _, stage := range report.Stages {
		if stage.Status == entities.StageSkipped {
			fmt.Printf("  %-24s %s\n", stage.Name, stage.Status)
			continue
		}
		fmt.Printf("  %-24s %-8s %.1fs\n", stage.Name, stage.Status, stage.DurationSeconds)
	}
}
