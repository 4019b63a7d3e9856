// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/brief-engine/internal/briefstore"
	"github.com/pdiddy/brief-engine/pkg/types"
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Browse saved research briefs",
	Long: `Brief manages the local archive of saved research briefs. Use
'brief list' to see recent runs and 'brief show <id>' to re-read one.`,
}

var briefListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently saved briefs",
	RunE:  runBriefList,
}

var briefShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a saved brief",
	RunE:  runBriefShow,
}

func init() {
	briefListCmd.Flags().Int("limit", 0, "maximum briefs to list (default 20)")
	briefListCmd.Flags().Bool("json", false, "output listing as JSON")

	briefShowCmd.Flags().Bool("json", false, "print the brief as JSON")

	briefCmd.PersistentFlags().String("store-dir", "", "directory for the brief store (default briefs/)")
	briefCmd.AddCommand(briefListCmd)
	briefCmd.AddCommand(briefShowCmd)
	rootCmd.AddCommand(briefCmd)
}

func storeFromFlags(cmd *cobra.Command) (*briefstore.Store, error) {
	dir, _ := cmd.Flags().GetString("store-dir")
	if dir == "" {
		dir = viper.GetString("store.dir")
	}
	maxList, _ := cmd.Flags().GetInt("limit")
	return briefstore.NewStore(types.StoreConfig{Dir: dir, MaxList: maxList})
}

func runBriefList(cmd *cobra.Command, args []string) error {
	store, err := storeFromFlags(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.List(context.Background())
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No saved briefs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-14s  %-40s  %-20s  %-10s  %s\n",
		"ID", "Topic", "Generated", "Confidence", "Papers")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, s := range summaries {
		topic := s.Topic
		if len(topic) > 40 {
			topic = topic[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-14s  %-40s  %-20s  %-10s  %d\n",
			s.ID, topic, s.GeneratedAt.Format("2006-01-02 15:04"), s.Confidence, s.TotalPapers)
	}
	return nil
}

func runBriefShow(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one brief ID (see 'brief list')")
	}

	store, err := storeFromFlags(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	brief, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(brief)
	}

	printBriefText(os.Stdout, brief)
	return nil
}

// printBriefText renders a brief as a readable terminal report.
func printBriefText(w io.Writer, brief *types.Brief) {
	fmt.Fprintf(w, "Research Brief: %s\n", brief.Topic)
	fmt.Fprintf(w, "Generated: %s    Confidence: %s\n",
		brief.GeneratedAt.Format("2006-01-02 15:04"), brief.Narrative.Confidence)
	fmt.Fprintln(w, strings.Repeat("=", 70))

	fmt.Fprintf(w, "\nFacets\n")
	fmt.Fprintf(w, "  Core service: %s\n", brief.Facets.CoreService)
	fmt.Fprintf(w, "  Platform:     %s\n", brief.Facets.Platform)
	fmt.Fprintf(w, "  Genre:        %s\n", brief.Facets.Genre)
	fmt.Fprintf(w, "  Features:     %s\n", strings.Join(brief.Facets.MainFeatures, ", "))
	fmt.Fprintf(w, "  Target users: %s\n", brief.Facets.TargetUsers)

	fmt.Fprintf(w, "\nSources\n")
	for _, src := range brief.Sources {
		status := "no relevant results"
		if src.Success {
			status = fmt.Sprintf("%d relevant result(s)", len(src.Results))
		}
		fmt.Fprintf(w, "  %-12s %s (%d searches", src.Source, status, src.SearchesAttempted)
		if len(src.Errors) > 0 {
			fmt.Fprintf(w, ", %d failed", len(src.Errors))
		}
		fmt.Fprintln(w, ")")
		if src.Best != nil {
			fmt.Fprintf(w, "      best: %s (score %d)\n", src.Best.Title(), src.Best.Score)
		}
	}

	m := brief.Stats.Market
	fmt.Fprintf(w, "\nMarket\n")
	fmt.Fprintf(w, "  Size: %s    Competition: %s    Trend: %s    Papers: %d\n",
		m.Size, m.Competition, m.Trend, m.TotalPapers)
	if len(brief.Stats.Competitors) > 0 {
		fmt.Fprintf(w, "  Competing tools/methods:")
		for i, c := range brief.Stats.Competitors {
			if i >= 5 {
				break
			}
			fmt.Fprintf(w, " %s(%d)", c.Name, c.Count)
		}
		fmt.Fprintln(w)
	}

	n := brief.Narrative
	fmt.Fprintf(w, "\nAssessment\n")
	fmt.Fprintf(w, "  %s\n", n.Summary)
	printInsightList(w, "Market insights", n.MarketInsights)
	printInsightList(w, "Technology insights", n.TechnologyInsights)
	printInsightList(w, "Competition", n.CompetitionNotes)
	printInsightList(w, "Opportunities", n.Opportunities)
	printInsightList(w, "Risks", n.Risks)
	fmt.Fprintf(w, "\n  Complexity: %s    Time to market: %s    Resources: %s\n",
		n.Complexity, n.TimeToMarket, n.Resources)
	fmt.Fprintf(w, "  Strategy: %s\n", n.Strategy)
}

func printInsightList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  %s:\n", label)
	for _, item := range items {
		fmt.Fprintf(w, "    - %s\n", item)
	}
}
