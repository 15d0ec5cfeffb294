// Command romancat builds the simulator input catalog for an observation
// plan: catalogued galaxies and stars inside the plan's footprint plus
// synthetic random stars, written as three subset files and their union.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/asterolab/romanprep/internal/assemble"
	"github.com/asterolab/romanprep/internal/catalog"
	"github.com/asterolab/romanprep/internal/config"
	"github.com/asterolab/romanprep/internal/events"
	"github.com/asterolab/romanprep/internal/footprint"
	"github.com/asterolab/romanprep/internal/idgen"
	"github.com/asterolab/romanprep/internal/plan"
	"github.com/asterolab/romanprep/internal/source"
	"github.com/asterolab/romanprep/internal/ui"
)

var (
	obsPlanFlag  string
	outputFlag   string
	galaxiesFlag string
	starsFlag    string

	raFlag     float64
	decFlag    float64
	radiusFlag float64

	numStarsFlag  int
	seedFlag      uint64
	magFaintFlag  float64
	magBrightFlag float64
	bandsFlag     []string
	noColorFlag   bool
)

var rootCmd = &cobra.Command{
	Use:          "romancat",
	Short:        "Generate a simulator input catalog from an observation plan",
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
		galaxiesRef := galaxiesFlag
		if galaxiesRef == "" {
			galaxiesRef = cfg.GalaxyCatalog
		}
		starsRef := starsFlag
		if starsRef == "" {
			starsRef = cfg.StarCatalog
		}
		if galaxiesRef == "" || starsRef == "" {
			return fmt.Errorf("catalog sources not configured: set --galaxy-catalog/--star-catalog or ROMANPREP_GALAXY_CATALOG/ROMANPREP_STAR_CATALOG")
		}

		records, err := plan.Read(obsPlanFlag)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("%s: plan has no exposures", obsPlanFlag)
		}

		// Pointing defaults to the mean plan pointing, as the plan covers
		// one contiguous field; explicit flags override.
		ra, dec := raFlag, decFlag
		if !cmd.Flags().Changed("ra") || !cmd.Flags().Changed("dec") {
			var sumRA, sumDec float64
			for _, r := range records {
				sumRA += r.RA
				sumDec += r.Dec
			}
			if !cmd.Flags().Changed("ra") {
				ra = sumRA / float64(len(records))
			}
			if !cmd.Flags().Changed("dec") {
				dec = sumDec / float64(len(records))
			}
		}
		fp, err := footprint.Circle(ra, dec, radiusFlag)
		if err != nil {
			return err
		}
		logger.Info("assembling catalog", "ra", ra, "dec", dec, "radius", radiusFlag, "plan", obsPlanFlag)

		opts := source.Options{S3Region: cfg.S3Region, S3Endpoint: cfg.S3Endpoint}
		galaxies, err := source.New(ctx, galaxiesRef, catalog.ProvenanceCosmos, opts)
		if err != nil {
			return err
		}
		stars, err := source.New(ctx, starsRef, catalog.ProvenanceGaia, opts)
		if err != nil {
			return err
		}

		res, err := assemble.Run(ctx, assemble.Config{
			Footprint: fp,
			Bands:     bandsFlag,
			Galaxies:  galaxies,
			Stars:     stars,
			Synth: catalog.SynthConfig{
				Count:     numStarsFlag,
				Seed:      seedFlag,
				MagFaint:  magFaintFlag,
				MagBright: magBrightFlag,
			},
			Logger: logger,
		})
		if err != nil {
			return err
		}
		if err := res.WriteFiles(outputFlag); err != nil {
			return err
		}
		if res.NoSources {
			fmt.Fprintln(os.Stderr, ui.RenderWarn("warning: no catalogued sources fell within the footprint; output carries synthetic stars only"))
		}

		if cfg.NATSURL != "" {
			runID, err := idgen.Generate()
			if err != nil {
				return err
			}
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			defer pub.Close()
			_ = pub.Publish(ctx, events.TopicCatalogAssembled, events.CatalogAssembled{
				RunID:     runID,
				PlanPath:  obsPlanFlag,
				UnionPath: outputFlag,
				Galaxies:  res.Galaxies.Len(),
				Stars:     res.Stars.Len(),
				Synthetic: res.Synthetic.Len(),
			})
		}

		fmt.Println(ui.RenderOK(fmt.Sprintf("wrote %s (%d sources: %d galaxies, %d stars, %d synthetic)",
			outputFlag, res.Union.Len(), res.Galaxies.Len(), res.Stars.Len(), res.Synthetic.Len())))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&obsPlanFlag, "obs-plan", "", "observation plan file (ECSV or TOML)")
	rootCmd.Flags().StringVar(&outputFlag, "output-filename", "", "combined catalog output path; subset paths are derived from it")
	rootCmd.Flags().StringVar(&galaxiesFlag, "galaxy-catalog", "", "extragalactic catalog reference (path or s3://bucket/key)")
	rootCmd.Flags().StringVar(&starsFlag, "star-catalog", "", "stellar catalog reference (path, s3://bucket/key, or postgres:// URL)")
	rootCmd.Flags().Float64Var(&raFlag, "ra", 0, "override: footprint center RA (deg; default mean plan RA)")
	rootCmd.Flags().Float64Var(&decFlag, "dec", 0, "override: footprint center Dec (deg; default mean plan Dec)")
	rootCmd.Flags().Float64Var(&radiusFlag, "radius", 0.3, "footprint radius (deg)")
	rootCmd.Flags().IntVar(&numStarsFlag, "num-stars", 1000, "number of synthetic stars to generate")
	rootCmd.Flags().Uint64Var(&seedFlag, "seed", 42, "random seed for synthetic star generation")
	rootCmd.Flags().Float64Var(&magFaintFlag, "mag-faint", 24.0, "faint AB magnitude limit for synthetic stars")
	rootCmd.Flags().Float64Var(&magBrightFlag, "mag-bright", 18.0, "bright AB magnitude limit for synthetic stars")
	rootCmd.Flags().StringSliceVar(&bandsFlag, "bands", source.RomanBands, "bandpasses carried by the output catalog")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colorized output")
	rootCmd.MarkFlagRequired("obs-plan")
	rootCmd.MarkFlagRequired("output-filename")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
