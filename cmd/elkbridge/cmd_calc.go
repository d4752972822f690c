// This file implements the calc command group: preparing an ELK job
// directory and parsing a retrieved one.
package main

import (
	"fmt"
	"os"

	"elkbridge/internal/codec"
	"elkbridge/internal/domain"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	calcStructurePath string
	calcFamily        string
	calcParamsPath    string
	calcWorkdir       string
)

// calcCmd groups the calculation commands
var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Prepare and parse ELK calculations",
}

// prepareCmd writes elk.in and prints the staging manifest
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Stage input files for one ELK calculation",
	Long: `Resolve the structure's elements against a basis family, write elk.in
into the working directory and print the staging manifest (species files to
copy in, output files to retrieve) as YAML.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, calcs, cleanup, err := openServices()
		if err != nil {
			return err
		}
		defer cleanup()

		st, err := loadStructure(calcStructurePath)
		if err != nil {
			return err
		}

		params := domain.RunParams{}
		if calcParamsPath != "" {
			if params, err = loadParams(calcParamsPath); err != nil {
				return err
			}
		}

		manifest, err := calcs.Prepare(cmd.Context(), st, calcFamily, params, calcWorkdir)
		if err != nil {
			return err
		}

		return yaml.NewEncoder(os.Stdout).Encode(manifest)
	},
}

// parseCmd parses a retrieved calculation directory
var parseCmd = &cobra.Command{
	Use:   "parse DIR",
	Short: "Parse the retrieved output files of an ELK calculation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, calcs, cleanup, err := openServices()
		if err != nil {
			return err
		}
		defer cleanup()

		results, err := calcs.ParseOutputs(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return yaml.NewEncoder(os.Stdout).Encode(results)
	},
}

func loadStructure(path string) (*domain.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open structure file: %w", err)
	}
	defer f.Close()
	return codec.ParseStructure(f)
}

func loadParams(path string) (domain.RunParams, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parameters file: %w", err)
	}
	defer f.Close()
	return codec.ParseRunParams(f)
}

func init() {
	prepareCmd.Flags().StringVar(&calcStructurePath, "structure", "", "YAML structure file")
	prepareCmd.Flags().StringVar(&calcFamily, "family", "", "LAPW basis family name")
	prepareCmd.Flags().StringVar(&calcParamsPath, "params", "", "YAML run parameters file")
	prepareCmd.Flags().StringVar(&calcWorkdir, "workdir", ".", "job working directory to write elk.in into")
	prepareCmd.MarkFlagRequired("structure")
	prepareCmd.MarkFlagRequired("family")

	calcCmd.AddCommand(prepareCmd)
	calcCmd.AddCommand(parseCmd)
}
