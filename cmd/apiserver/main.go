// Command apiserver runs the CivicLens API server directly, for deployments
// that configure everything through CIVICLENS_* environment variables.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/interfaces/cli"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (env-only when omitted)")
	migrate := flag.Bool("migrate", false, "apply pending schema migrations before serving")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Serve(cfg, *migrate); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
