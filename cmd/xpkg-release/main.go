package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	ctx := context.Background()

	// Bare invocation runs the full pipeline.
	if len(os.Args) < 2 {
		runRun(ctx, nil)
		return
	}

	command := os.Args[1]

	switch command {
	case "run":
		runRun(ctx, os.Args[2:])
	case "verify":
		runVerify(ctx, os.Args[2:])
	case "params":
		runParams(os.Args[2:])
	case "ci":
		runCI(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`xpkg-release - build and publish the provider's multi-arch packages

Usage:
  xpkg-release [command] [options]

Running without a command executes the full release pipeline.

Commands:
  run      Run the release pipeline (default)
  verify   Verify the published manifest for a version
  params   Print the resolved release parameters
  ci       Render the GitHub Actions publish workflow
  help     Show this help message

Environment variables:
  VERSION           Release version tag (default v0.12.0)
  ECR_REGISTRY      Target registry host (default 481312470517.dkr.ecr.us-east-1.amazonaws.com)
  ECR_REPOSITORY    Repository within the registry (default crossplane-sql-provider)
  AWS_REGION        Region for the credential exchange (default us-east-1)
  AWS_PROFILE       Shared config profile (default mgmt)
  UP_VERSION        Pinned up CLI version (default v0.28.0)
  UP_BASE_URL       up CLI download base URL (default https://cli.upbound.io/stable)
  UP_PATH           Install path for the up CLI (default .cache/up)
  UP_SHA256         Expected checksum of the up download (unset: skip)
  UP_SIGNATURE_URL  Detached signature for the up download (unset: skip)
  UP_KEYRING        Armored keyring file for signature verification

Use "xpkg-release [command] --help" for more information about a command.`)
}
