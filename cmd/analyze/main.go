// analyze runs the pipeline once over a saved block-graph JSON file and
// prints the classification and extraction result. Useful for inspecting
// engine captures without a running service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gestordocs/docanalyzer/internal/ocr"
	"github.com/gestordocs/docanalyzer/internal/pipeline"
)

func main() {
	var (
		input  = flag.String("input", "", "path to a block-graph JSON file (required)")
		pretty = flag.Bool("pretty", true, "indent the JSON output")
		quiet  = flag.Bool("quiet", false, "suppress processing logs")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required")
		flag.Usage()
		os.Exit(2)
	}

	logOut := os.Stderr
	if *quiet {
		devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err == nil {
			logOut = devnull
		}
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))
	slog.SetDefault(logger)

	engine, err := ocr.NewStaticFromFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	proc := pipeline.NewProcessor(engine, nil, logger)
	out := proc.Process(context.Background(), nil)

	result := map[string]any{
		"classification": out.Result.Classification,
		"confidence":     out.Result.Confidence,
	}
	if out.Result.Error != "" {
		result["error"] = out.Result.Error
	}
	if out.Invoice != nil {
		result["invoice"] = out.Invoice
	}
	if out.Information != nil {
		result["information"] = out.Information
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
