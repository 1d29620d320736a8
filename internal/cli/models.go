// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/jeranaias/kivama-tui/internal/ollama"
)

func (a *app) newModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List locally installed models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runModels(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&a.opts.jsonOutput, "json", false, "Print the list as JSON")
	return cmd
}

func (a *app) runModels(ctx context.Context, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout())
	defer cancel()

	models, err := a.newClient().ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })

	if a.opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(models); err != nil {
			return fmt.Errorf("failed to encode models: %w", err)
		}
		return nil
	}

	printModels(out, models, a.cfg.Model)
	return nil
}

// printModels writes one aligned row per model and marks the configured one.
func printModels(out io.Writer, models []ollama.ModelInfo, current string) {
	if len(models) == 0 {
		fmt.Fprintln(out, DimStyle.Render("No models installed. Pull one with: ollama pull "+current))
		return
	}

	nameWidth := runewidth.StringWidth("NAME")
	for _, m := range models {
		if w := runewidth.StringWidth(m.Name); w > nameWidth {
			nameWidth = w
		}
	}

	fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("  %s  %-10s  %-8s  %s",
		runewidth.FillRight("NAME", nameWidth), "SIZE", "PARAMS", "MODIFIED")))
	for _, m := range models {
		marker := "  "
		if hasModel([]ollama.ModelInfo{m}, current) {
			marker = "* "
		}
		modified := "-"
		if !m.ModifiedAt.IsZero() {
			modified = humanize.Time(m.ModifiedAt)
		}
		fmt.Fprintf(out, "%s%s  %-10s  %-8s  %s\n",
			marker,
			runewidth.FillRight(m.Name, nameWidth),
			m.FormatSize(),
			m.Details.ParameterSize,
			DimStyle.Render(modified))
	}
}
