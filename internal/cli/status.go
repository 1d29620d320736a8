// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/kivama-tui/internal/ollama"
)

// StatusReport is the result of the status command.
type StatusReport struct {
	OllamaURL      string `json:"ollama_url"`
	Running        bool   `json:"running"`
	Model          string `json:"model"`
	ModelInstalled bool   `json:"model_installed"`
	ModelCount     int    `json:"model_count"`
	Error          string `json:"error,omitempty"`
}

func (a *app) newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check that the Ollama server is reachable",
		Long: `Check that the Ollama server answers and that the configured model
is installed. Exits non-zero when the server cannot be reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&a.opts.jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}

func (a *app) runStatus(ctx context.Context, out io.Writer) error {
	client := a.newClient()
	report, err := collectStatus(ctx, client, a.cfg.Model, a.cfg.Timeout())
	if err != nil {
		a.logger.Warn("ollama unreachable",
			zap.String("ollama_url", report.OllamaURL),
			zap.Error(err))
	}

	if a.opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return fmt.Errorf("failed to encode status: %w", encErr)
		}
	} else {
		printStatus(out, report)
	}

	if err != nil {
		return fmt.Errorf("ollama status: %w", err)
	}
	return nil
}

// collectStatus probes the server and the installed models.
func collectStatus(ctx context.Context, client *ollama.Client, modelName string, timeout time.Duration) (StatusReport, error) {
	report := StatusReport{
		OllamaURL: client.GetConfig().BaseURL,
		Model:     modelName,
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.CheckRunning(ctx); err != nil {
		report.Error = err.Error()
		return report, err
	}
	report.Running = true

	models, err := client.ListModels(ctx)
	if err != nil {
		report.Error = err.Error()
		return report, err
	}
	report.ModelCount = len(models)
	report.ModelInstalled = hasModel(models, modelName)
	return report, nil
}

func printStatus(out io.Writer, r StatusReport) {
	fmt.Fprintln(out, TitleStyle.Render("kivama status"))
	fmt.Fprintf(out, "%s %s %s\n", LabelStyle.Render("Ollama"), RenderStatus(r.Running), ValueStyle.Render(r.OllamaURL))
	if !r.Running {
		fmt.Fprintf(out, "%s %s\n", LabelStyle.Render(""), DimStyle.Render("Start it with: ollama serve"))
		return
	}

	fmt.Fprintf(out, "%s %s %s\n", LabelStyle.Render("Model"), RenderStatus(r.ModelInstalled), ValueStyle.Render(r.Model))
	if !r.ModelInstalled {
		fmt.Fprintf(out, "%s %s\n", LabelStyle.Render(""), DimStyle.Render("Install it with: ollama pull "+r.Model))
	}
	fmt.Fprintf(out, "%s %s\n", LabelStyle.Render("Installed"), ValueStyle.Render(fmt.Sprintf("%d models", r.ModelCount)))
}

// hasModel reports whether name is installed, treating a bare name as its
// ":latest" tag.
func hasModel(models []ollama.ModelInfo, name string) bool {
	want := name
	if !strings.Contains(want, ":") {
		want += ":latest"
	}
	for _, m := range models {
		if m.Name == name || m.Name == want {
			return true
		}
	}
	return false
}
