package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/agrisurvey/soilreport/internal/grading"
)

var standardsCmd = &cobra.Command{
	Use:   "standards",
	Short: "Inspect grading standards",
}

var standardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available grading standards",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry()
		active := reg.ActiveID()
		for _, info := range reg.List() {
			marker := " "
			if info.ID == active {
				marker = "*"
			}
			fmt.Printf("%s %-12s %s (%d attributes)\n", marker, info.ID, info.Name, info.Attributes)
		}
		return nil
	},
}

var standardsShowCmd = &cobra.Command{
	Use:   "show <id> [attribute]",
	Short: "Show the grade tables of a standard",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry()
		std, err := reg.Get(args[0])
		if err != nil {
			return err
		}

		if len(args) == 2 {
			cfg := std.Attr(args[1])
			if cfg == nil {
				return fmt.Errorf("standard %s has no attribute %s", std.ID, args[1])
			}
			printAttr(cfg)
			return nil
		}

		fmt.Printf("%s: %s\n", std.ID, std.Name)
		for _, key := range sortedAttrKeys(std) {
			printAttr(std.Attributes[key])
			fmt.Println()
		}
		return nil
	},
}

func printAttr(cfg *grading.AttrConfig) {
	unit := cfg.Unit
	if unit != "" {
		unit = " (" + unit + ")"
	}
	fmt.Printf("%s %s%s\n", cfg.Key, cfg.Name, unit)
	ranges := cfg.GradeRanges()
	for _, g := range cfg.GradeOrder() {
		fmt.Printf("  %-4s %s\n", grading.RomanGrade(g), ranges[g])
	}
}

func sortedAttrKeys(std *grading.Standard) []string {
	keys := make([]string, 0, len(std.Attributes))
	for k := range std.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	standardsCmd.AddCommand(standardsListCmd, standardsShowCmd)
	rootCmd.AddCommand(standardsCmd)
}
