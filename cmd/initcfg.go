package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// starterConfig is the skeleton written by `leadgen init`. Keys left empty
// are read from LEADGEN_* environment variables at runtime.
type starterConfig struct {
	Store struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
	} `yaml:"store"`
	Serper struct {
		Key string `yaml:"key"`
	} `yaml:"serper"`
	SAMGov struct {
		Key string `yaml:"key"`
	} `yaml:"sam_gov"`
	Hunter struct {
		Key string `yaml:"key"`
	} `yaml:"hunter"`
	Clearbit struct {
		Key string `yaml:"key"`
	} `yaml:"clearbit"`
	Discovery struct {
		EnableBanking         bool  `yaml:"enable_banking"`
		EnableInsurance       bool  `yaml:"enable_insurance"`
		EnableEnergy          bool  `yaml:"enable_energy"`
		EnableGovernment      bool  `yaml:"enable_government"`
		MaxResultsPerProducer int   `yaml:"max_results_per_producer"`
		BankAssetMinimum      int64 `yaml:"bank_asset_minimum"`
	} `yaml:"discovery"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.yaml to the current directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		const path = "config.yaml"
		if _, err := os.Stat(path); err == nil {
			return eris.Errorf("%s already exists, not overwriting", path)
		}

		var sc starterConfig
		sc.Store.Driver = "sqlite"
		sc.Store.Path = "leadgen.db"
		sc.Discovery.EnableBanking = true
		sc.Discovery.EnableInsurance = true
		sc.Discovery.EnableEnergy = true
		sc.Discovery.EnableGovernment = true
		sc.Discovery.MaxResultsPerProducer = 50
		sc.Discovery.BankAssetMinimum = 1_000_000_000
		sc.Log.Level = "info"
		sc.Log.Format = "console"

		data, err := yaml.Marshal(&sc)
		if err != nil {
			return eris.Wrap(err, "marshal starter config")
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return eris.Wrap(err, "write starter config")
		}

		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
