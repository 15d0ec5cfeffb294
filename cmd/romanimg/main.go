// Command romanimg drives the external image simulator over an observation
// plan: one Level-1 image per exposure row and SCA, drawn from a previously
// assembled input catalog. Exposure failures are collected and summarized
// rather than aborting the run.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/asterolab/romanprep/internal/catalog"
	"github.com/asterolab/romanprep/internal/config"
	"github.com/asterolab/romanprep/internal/events"
	"github.com/asterolab/romanprep/internal/idgen"
	"github.com/asterolab/romanprep/internal/plan"
	"github.com/asterolab/romanprep/internal/sim"
	"github.com/asterolab/romanprep/internal/ui"
)

var (
	obsPlanFlag    string
	inputFlag      string
	outputDirFlag  string
	maxWorkersFlag int
	scaIDsFlag     []int
	radiusFlag     float64
	programFlag    int
	noColorFlag    bool
)

var rootCmd = &cobra.Command{
	Use:          "romanimg",
	Short:        "Generate simulated Level-1 images from an observation plan and input catalog",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if noColorFlag {
			ui.ForceNoColor()
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		records, err := plan.Read(obsPlanFlag)
		if err != nil {
			return err
		}
		combined, err := catalog.ReadFile(inputFlag)
		if err != nil {
			return err
		}
		scas, err := sim.ExpandSCAs(scaIDsFlag)
		if err != nil {
			return err
		}

		runID, err := idgen.Generate()
		if err != nil {
			return err
		}
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publisher = pub
			defer pub.Close()
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
		}

		driver := &sim.Driver{
			Catalog:    combined,
			Records:    records,
			SCAs:       scas,
			Radius:     radiusFlag,
			Program:    programFlag,
			OutputDir:  outputDirFlag,
			MaxWorkers: maxWorkersFlag,
			Runner: &sim.ExecRunner{
				Command: cfg.SimCommand,
				Date:    cfg.SimDate,
				UseCRDS: cfg.UseCRDS,
				Logger:  logger,
			},
			Publisher: publisher,
			RunID:     runID,
			Logger:    logger,
		}

		failures, err := driver.Run(ctx)
		if err != nil {
			return err
		}

		total := len(records) * len(scas)
		if len(failures) > 0 {
			fmt.Fprintln(os.Stderr, ui.RenderFail(fmt.Sprintf("%d of %d exposures failed:", len(failures), total)))
			for _, f := range failures {
				fmt.Fprintln(os.Stderr, ui.RenderFail("  "+f.String()))
			}
			return fmt.Errorf("%d of %d exposures failed", len(failures), total)
		}
		fmt.Println(ui.RenderOK(fmt.Sprintf("simulated %d exposures into %s", total, outputDirFlag)))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&obsPlanFlag, "obs-plan", "", "observation plan file (ECSV or TOML)")
	rootCmd.Flags().StringVar(&inputFlag, "input-filename", "", "combined input catalog (ECSV)")
	rootCmd.Flags().StringVar(&outputDirFlag, "output-dir", ".", "directory for simulated image files")
	rootCmd.Flags().IntVar(&maxWorkersFlag, "max-workers", 1, "parallel simulator invocations (1 disables parallelism)")
	rootCmd.Flags().IntSliceVar(&scaIDsFlag, "sca-ids", []int{1}, "SCA IDs to simulate; a single negative value selects all")
	rootCmd.Flags().Float64Var(&radiusFlag, "radius", 0.3, "per-exposure catalog re-filtering radius (deg)")
	rootCmd.Flags().IntVar(&programFlag, "program", 1, "program number for output filenames")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colorized output")
	rootCmd.MarkFlagRequired("obs-plan")
	rootCmd.MarkFlagRequired("input-filename")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
