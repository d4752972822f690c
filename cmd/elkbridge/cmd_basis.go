// This file implements the lapwbasis command group: uploading and listing
// LAPW basis-set families.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	uploadName        string
	uploadDescription string
	listElements      []string
	listOwner         string
)

// lapwbasisCmd groups the basis family commands
var lapwbasisCmd = &cobra.Command{
	Use:   "lapwbasis",
	Short: "Manage LAPW basis-set families",
}

// uploadCmd uploads a directory of species files into a family
var uploadCmd = &cobra.Command{
	Use:   "upload PATH",
	Short: "Upload a new set of LAPW basis files",
	Long: `Upload every .in species file under PATH into the named family.

Files whose content is already stored are reused instead of duplicated;
files already in the family are skipped. The family is created on first
upload and its description is overwritten on every re-upload.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		families, _, cleanup, err := openServices()
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := families.Upload(cmd.Context(), args[0], uploadName, uploadDescription, cfg.OwnerEmail, cfg.StopIfExisting)
		if err != nil {
			return err
		}

		fmt.Printf("Species files found: %d. New files uploaded: %d.\n",
			res.FilesFound, res.FilesUploaded)
		return nil
	},
}

// listCmd lists the stored basis families
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the uploaded sets of LAPW basis files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		families, _, cleanup, err := openServices()
		if err != nil {
			return err
		}
		defer cleanup()

		found, err := families.List(cmd.Context(), listElements, listOwner)
		if err != nil {
			return err
		}

		if len(found) == 0 {
			fmt.Println("No LAPW basis sets were found.")
			return nil
		}

		for _, f := range found {
			fmt.Printf("* %s [%d species]: %s\n", f.Name, len(f.Members), f.Description)
		}
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadName, "name", "", "name of the LAPW basis set")
	uploadCmd.Flags().StringVar(&uploadDescription, "description", "", "description of the set")
	uploadCmd.MarkFlagRequired("name")

	listCmd.Flags().StringSliceVar(&listElements, "element", nil, "only families covering every given element")
	listCmd.Flags().StringVar(&listOwner, "owner-filter", "", "only families owned by the given user")

	lapwbasisCmd.AddCommand(uploadCmd)
	lapwbasisCmd.AddCommand(listCmd)
}
