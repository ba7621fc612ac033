package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrisurvey/soilreport/internal/ingest"
	"github.com/agrisurvey/soilreport/internal/report"
	"github.com/agrisurvey/soilreport/internal/table"
)

var (
	reportMappedFiles []string
	reportSampleFiles []string
	reportStandard    string
	reportOutPath     string
	reportJSONPath    string
	reportSave        bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a statistical report from survey files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(reportMappedFiles) == 0 && len(reportSampleFiles) == 0 {
			return eris.New("at least one of --mapped or --sample is required")
		}

		reg := newRegistry()
		stdID := reportStandard
		if stdID == "" {
			stdID = reg.ActiveID()
		}
		std, err := reg.Get(stdID)
		if err != nil {
			return err
		}

		var mapped, sample *table.Table
		if len(reportMappedFiles) > 0 {
			if mapped, err = ingest.LoadAll(reportMappedFiles); err != nil {
				return err
			}
			zap.L().Info("loaded mapped tables", zap.Int("rows", mapped.Len()))
		}
		if len(reportSampleFiles) > 0 {
			if sample, err = ingest.LoadAll(reportSampleFiles); err != nil {
				return err
			}
			zap.L().Info("loaded sample tables", zap.Int("rows", sample.Len()))
		}

		start := time.Now()
		rpt, err := report.NewGenerator(std).
			WithConcurrency(cfg.Report.Concurrency).
			Generate(cmd.Context(), mapped, sample)
		if err != nil {
			return err
		}
		zap.L().Info("report generated",
			zap.Int("attributes", len(rpt.Attributes)),
			zap.Strings("skipped", rpt.Skipped),
			zap.Duration("elapsed", time.Since(start)),
		)

		if reportJSONPath != "" {
			data, err := json.MarshalIndent(rpt, "", "  ")
			if err != nil {
				return eris.Wrap(err, "encode report")
			}
			if err := os.WriteFile(reportJSONPath, data, 0o644); err != nil {
				return eris.Wrap(err, "write report json")
			}
			fmt.Printf("wrote %s\n", reportJSONPath)
		}

		outPath := reportOutPath
		if outPath == "" && reportJSONPath == "" {
			outPath = filepath.Join(cfg.Report.OutputDir,
				fmt.Sprintf("soilreport-%s.xlsx", time.Now().Format("20060102-150405")))
		}
		if outPath != "" {
			if err := report.WriteXLSX(rpt, std, outPath); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", outPath)
		}

		if reportSave {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.CreateReport(cmd.Context(), filepath.Base(outPath), std.ID)
			if err != nil {
				return err
			}
			if err := st.CompleteReport(cmd.Context(), rec.ID, rpt); err != nil {
				return err
			}
			fmt.Printf("saved report %s\n", rec.ID)
		}

		return nil
	},
}

func init() {
	reportCmd.Flags().StringSliceVar(&reportMappedFiles, "mapped", nil, "mapped zone files (csv, xlsx or shp)")
	reportCmd.Flags().StringSliceVar(&reportSampleFiles, "sample", nil, "sample point files (csv, xlsx or shp)")
	reportCmd.Flags().StringVar(&reportStandard, "standard", "", "grading standard id (default: configured active)")
	reportCmd.Flags().StringVar(&reportOutPath, "out", "", "output workbook path")
	reportCmd.Flags().StringVar(&reportJSONPath, "json", "", "also write the report as JSON to this path")
	reportCmd.Flags().BoolVar(&reportSave, "save", false, "save the report to the store")
	rootCmd.AddCommand(reportCmd)
}
