package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	gp "nickandperla.net/genetic_paths"
)

func openStore() (*gp.Persistence, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if config.Persistence == nil {
		return nil, gp.ErrNoPersistence
	}
	return gp.NewPersistence(config.Persistence)
}

func replayCommand() *cobra.Command {
	var limit int
	var scrub int

	cmd := &cobra.Command{
		Use:   "replay [run-id]",
		Short: "List persisted runs, or show one run's generations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Shutdown()

			out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer out.Flush()

			if len(args) == 0 {
				return listRuns(out, store, limit)
			}

			run, err := store.LoadRun(args[0])
			if err != nil {
				return err
			}
			if scrub >= 0 {
				return scrubRun(cmd, store, run, scrub)
			}
			return showRun(out, store, run)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "how many runs to list")
	cmd.Flags().IntVar(&scrub, "scrub", -1, "restore the run and show this recorded generation")
	return cmd
}

func listRuns(out *tabwriter.Writer, store *gp.Persistence, limit int) error {
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "RUN\tCREATED\tGENERATIONS\tPATHS")
	for _, run := range runs {
		fmt.Fprintf(out, "%s\t%s\t%s\t%d\n",
			run.UUID, humanize.Time(run.CreatedAt), humanize.Comma(int64(run.Generations)), run.PopulationCount)
	}
	return nil
}

func showRun(out *tabwriter.Writer, store *gp.Persistence, run *gp.Run) error {
	stats, err := store.QueryStats(run.ID)
	if err != nil {
		return err
	}
	metrics, err := store.QueryMetrics(run.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run %s, %s history, saved %s\n",
		run.UUID, humanize.Bytes(uint64(len(run.History))), humanize.Time(run.CreatedAt))
	fmt.Fprintln(out, "GEN\tAVG FITNESS\tFACTOR\tAVG NODES\tCROSSOVERS\tTRANS\tINS\tDEL")
	for _, s := range stats {
		fmt.Fprintf(out, "%d\t%.3f\t%.4f\t%.2f\t%d\t%d\t%d\t%d\n",
			s.GenerationNumber, s.AverageFitness, s.FitnessFactor, s.AverageNodeCount,
			s.CrossoverAmount, s.TranslationMutations, s.InsertionMutations, s.DeletionMutations)
	}
	fmt.Fprintf(out, "\nBest average fitness %.3f, best factor %.4f, %s crossovers, %s mutations\n",
		metrics.BestAverageFitness, metrics.BestFitnessFactor,
		humanize.Comma(int64(metrics.TotalCrossovers)),
		humanize.Comma(int64(metrics.TotalTranslations+metrics.TotalInsertions+metrics.TotalDeletions)))

	best, err := store.QueryBestGeneration(run.ID)
	if err != nil {
		return err
	}
	if best != nil {
		fmt.Fprintf(out, "Fittest generation #%d of %d, average fitness %.3f\n",
			best.GenerationNumber, metrics.FinalGenerationIndex, best.AverageFitness)
	}
	return nil
}

func scrubRun(cmd *cobra.Command, store *gp.Persistence, run *gp.Run, index int) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	ctl, err := gp.NewController(config, nil, store, gp.NewDiagnostics(gp.LogSubscriber(log)))
	if err != nil {
		return err
	}
	if err := ctl.Restore(run.History); err != nil {
		return err
	}
	if err := ctl.SetScrub(index); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), ctl.GenerationInfoText())
	return nil
}
