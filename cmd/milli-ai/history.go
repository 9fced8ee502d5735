package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the call journal",
	}
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyPruneCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled calls, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeFn, err := openJournal()
			if err != nil {
				return err
			}
			defer closeFn()

			calls, err := store.ListCalls(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tDURATION\tMODEL\tSTATUS\tPROMPT\tANSWER\tERROR")
			for _, c := range calls {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
					c.StartedAt.Local().Format(time.DateTime), c.Duration, c.Model, c.Status,
					c.PromptBytes, c.AnswerBytes, c.ErrorKind)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show (0 for all)")
	return cmd
}

func historyPruneCmd() *cobra.Command {
	var keepLast int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeFn, err := openJournal()
			if err != nil {
				return err
			}
			defer closeFn()

			deleted, err := store.PruneCalls(cmd.Context(), keepLast)
			if err != nil {
				return err
			}
			log.Info().Int64("deleted", deleted).Int("kept", keepLast).Msg("journal pruned")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries\n", deleted)
			return err
		},
	}
	cmd.Flags().IntVar(&keepLast, "keep-last", 100, "number of newest entries to keep")
	return cmd
}
