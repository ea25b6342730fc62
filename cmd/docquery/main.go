package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nonibytes/docquery"
	"github.com/nonibytes/docquery/internal/adapter/memstore"
	"github.com/nonibytes/docquery/internal/adapter/schema"
)

var rootCmd = &cobra.Command{
	Use:   "docquery",
	Short: "Run a declarative query against a seeded in-memory store",
	RunE:  run,
}

var (
	flagSeed    string
	flagStore   string
	flagPK      string
	flagIndices []string
	flagQuery   string
)

func init() {
	rootCmd.Flags().StringVar(&flagSeed, "seed", "", "path to a JSON seed file (a top-level array of records)")
	rootCmd.Flags().StringVar(&flagStore, "store", "", "store name to query")
	rootCmd.Flags().StringVar(&flagPK, "pk", "", "dotted primary-key path")
	rootCmd.Flags().StringSliceVar(&flagIndices, "index", nil, "secondary index declaration, name=path (repeatable)")
	rootCmd.Flags().StringVar(&flagQuery, "query", "", "URL-encoded query parameter string")

	for _, required := range []string{"seed", "store", "pk"} {
		if err := rootCmd.MarkFlagRequired(required); err != nil {
			log.Fatal(err)
		}
	}
}

func run(cmd *cobra.Command, _ []string) error {
	indices, err := parseIndices(flagIndices)
	if err != nil {
		return err
	}

	store := memstore.NewStore(flagPK, indices)

	f, err := os.Open(flagSeed)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	ctx := cmd.Context()
	if err := store.LoadSeed(ctx, f); err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	sch := store.Schema(flagStore)
	result, err := docquery.QueryString(ctx, sch, store, flagStore, flagQuery)
	if err != nil {
		return err
	}

	return printResult(result)
}

func parseIndices(raw []string) (map[string]schema.IndexDef, error) {
	indices := make(map[string]schema.IndexDef, len(raw))
	for _, entry := range raw {
		name, path, ok := strings.Cut(entry, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("malformed --index %q, want name=path", entry)
		}
		indices[name] = schema.IndexDef{Path: path}
	}
	return indices, nil
}

func printResult(result docquery.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	switch {
	case result.Keys != nil:
		return enc.Encode(result.Keys)
	case result.Lookup != nil:
		keyed := make(map[string]any, len(result.Lookup))
		for k, v := range result.Lookup {
			keyed[fmt.Sprint(k)] = v
		}
		return enc.Encode(keyed)
	default:
		return enc.Encode(result.Records)
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}
