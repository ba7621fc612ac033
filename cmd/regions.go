package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agrisurvey/soilreport/internal/ingest"
	"github.com/agrisurvey/soilreport/internal/store"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Manage the administrative region directory",
}

var regionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List regions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		regions, err := st.ListRegions(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range regions {
			fmt.Printf("%s  %-12s %s\n", r.ID, r.Name, r.Parent)
		}
		return nil
	},
}

var regionParent string

var regionsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update a region",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		r, err := st.UpsertRegion(cmd.Context(), args[0], regionParent)
		if err != nil {
			return err
		}
		fmt.Printf("saved region %s (%s)\n", r.Name, r.ID)
		return nil
	},
}

var regionsRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a region",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		return st.DeleteRegion(cmd.Context(), args[0])
	},
}

var regionsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import regions from a survey file",
	Long:  "Reads a csv or xlsx file with 名称 and 上级 columns and upserts every row into the region directory.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := ingest.Load(args[0])
		if err != nil {
			return err
		}
		nameCol := tbl.FindColumn("名称", "行政区名称", "name")
		if nameCol == "" {
			return eris.Errorf("%s has no region name column", args[0])
		}
		parentCol := tbl.FindColumn("上级", "parent")

		var regions []store.Region
		seen := make(map[string]bool)
		for i, name := range tbl.Column(nameCol) {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			r := store.Region{Name: name}
			if parentCol != "" {
				r.Parent = tbl.Column(parentCol)[i]
			}
			regions = append(regions, r)
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		// The Postgres backend has a bulk path.
		if ps, ok := st.(*store.PostgresStore); ok {
			n, err := ps.ImportRegions(cmd.Context(), regions)
			if err != nil {
				return err
			}
			fmt.Printf("imported %d regions\n", n)
			return nil
		}

		for _, r := range regions {
			if _, err := st.UpsertRegion(cmd.Context(), r.Name, r.Parent); err != nil {
				return err
			}
		}
		fmt.Printf("imported %d regions\n", len(regions))
		return nil
	},
}

func init() {
	regionsAddCmd.Flags().StringVar(&regionParent, "parent", "", "parent region name")
	regionsCmd.AddCommand(regionsListCmd, regionsAddCmd, regionsRemoveCmd, regionsImportCmd)
	rootCmd.AddCommand(regionsCmd)
}
