// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/brief-engine/internal/briefstore"
	"github.com/pdiddy/brief-engine/internal/pipeline"
	"github.com/pdiddy/brief-engine/pkg/types"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "brief-engine/0.1"
)

var researchCmd = &cobra.Command{
	Use:   "research [topic]",
	Short: "Generate a research brief for a topic",
	Long: `Research runs the full pipeline for a topic: facet decomposition,
multilingual keyword expansion, concurrent Wikipedia and OpenAlex queries,
relevance filtering, and synthesis of market statistics and a narrative.

Source failures degrade the brief rather than aborting it; the narrative's
confidence field records which path produced it.`,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().Bool("academic", true, "include the academic corpus (OpenAlex)")
	researchCmd.Flags().String("model", "", "AI model identifier for analysis and narrative")
	researchCmd.Flags().Duration("timeout", 0, "per-source call timeout (default 15s)")
	researchCmd.Flags().Bool("json", false, "print the brief as JSON")
	researchCmd.Flags().Bool("yaml", false, "print the brief as YAML")
	researchCmd.Flags().Bool("save", false, "save the brief to the local store")
	researchCmd.Flags().String("store-dir", "", "directory for the brief store (default briefs/)")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one topic, quoted if it contains spaces")
	}
	topic := args[0]

	cfg := pipelineConfigFromFlags(cmd)
	includeAcademic, _ := cmd.Flags().GetBool("academic")

	client := &http.Client{
		Timeout: cfg.Dispatch.Timeout,
	}

	p := pipeline.New(cfg, client)
	brief, err := p.Run(context.Background(), topic, pipeline.Options{IncludeAcademic: includeAcademic}, os.Stderr)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := briefstore.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Save(context.Background(), brief)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved brief %s\n", id)
	}

	return printBrief(brief, cmd)
}

// pipelineConfigFromFlags assembles the pipeline configuration from flags,
// the config file, and loaded secrets, in that order of precedence.
func pipelineConfigFromFlags(cmd *cobra.Command) types.PipelineConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("gateway.model")
	}
	if model == "" {
		model = defaultModel
	}

	dispatch := types.DefaultDispatch()
	dispatch.UserAgent = defaultUserAgent
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		dispatch.CallTimeout = timeout
	}
	if email := viper.GetString("dispatch.openalex_email"); email != "" {
		dispatch.OpenAlexEmail = email
	} else {
		dispatch.OpenAlexEmail = loadedSecrets.Get("openalex-email", "")
	}

	storeDir, _ := cmd.Flags().GetString("store-dir")
	if storeDir == "" {
		storeDir = viper.GetString("store.dir")
	}

	return types.PipelineConfig{
		Gateway: types.GatewayConfig{
			Model:  model,
			APIKey: loadedSecrets.Get("anthropic-api-key", os.Getenv("ANTHROPIC_API_KEY")),
		},
		Dispatch:  dispatch,
		Relevance: types.DefaultRelevance(),
		Synthesis: types.DefaultSynthesis(),
		Store:     types.StoreConfig{Dir: storeDir},
	}
}

func printBrief(brief *types.Brief, cmd *cobra.Command) error {
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(brief)
	}
	if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(brief)
	}
	printBriefText(os.Stdout, brief)
	return nil
}
