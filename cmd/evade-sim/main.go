// Command evade-sim prints the placements the evading button would take for
// a given layout.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kyiku/hackz-valentine-back/internal/catalog"
	"github.com/kyiku/hackz-valentine-back/internal/evade"
)

type options struct {
	containerW, containerH float64
	safeLeft, safeTop      float64
	safeW, safeH           float64
	targetW, targetH       float64
	steps                  int
	catalogPath            string
	asJSON                 bool
}

// step is one simulated escape.
type step struct {
	Attempt  int                `json:"attempt"`
	Left     float64            `json:"left"`
	Top      float64            `json:"top"`
	Anchor   int                `json:"anchor"`
	Cursor   int                `json:"cursor"`
	Fallback evade.FallbackKind `json:"fallback"`
	Status   string             `json:"status"`
}

func main() {
	if err := newCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:          "evade-sim",
		Short:        "Simulate the evading button placements",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.Load(opts.catalogPath)
			if err != nil {
				return err
			}
			steps, err := simulate(opts, cat)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), steps, opts.asJSON)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.containerW, "container-width", 400, "container width")
	f.Float64Var(&opts.containerH, "container-height", 300, "container height")
	f.Float64Var(&opts.safeLeft, "safe-left", 150, "safe element left")
	f.Float64Var(&opts.safeTop, "safe-top", 120, "safe element top")
	f.Float64Var(&opts.safeW, "safe-width", 100, "safe element width")
	f.Float64Var(&opts.safeH, "safe-height", 60, "safe element height")
	f.Float64Var(&opts.targetW, "target-width", 80, "button width")
	f.Float64Var(&opts.targetH, "target-height", 36, "button height")
	f.IntVar(&opts.steps, "steps", 6, "number of escapes")
	f.StringVar(&opts.catalogPath, "catalog", "", "copy catalog YAML for status lines")
	f.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func simulate(opts options, cat *catalog.Catalog) ([]step, error) {
	if opts.containerW <= 0 || opts.containerH <= 0 || opts.targetW <= 0 || opts.targetH <= 0 {
		return nil, fmt.Errorf("container and target sizes must be positive")
	}
	if opts.steps < 0 {
		return nil, fmt.Errorf("steps must not be negative")
	}

	container := evade.Rect{Right: opts.containerW, Bottom: opts.containerH}
	safe := evade.RectAt(evade.Point{X: opts.safeLeft, Y: opts.safeTop}, evade.Size{Width: opts.safeW, Height: opts.safeH})
	target := evade.Size{Width: opts.targetW, Height: opts.targetH}

	placer := evade.NewPlacer()
	steps := make([]step, 0, opts.steps)
	for i := 0; i < opts.steps; i++ {
		res := placer.Place(container, safe, target)
		steps = append(steps, step{
			Attempt:  res.Attempts,
			Left:     res.Position.X,
			Top:      res.Position.Y,
			Anchor:   res.Anchor,
			Cursor:   res.Cursor,
			Fallback: res.Fallback,
			Status:   evade.Feedback(res.Attempts, cat.Feedback.Lines, cat.Feedback.First),
		})
	}
	return steps, nil
}

func render(w io.Writer, steps []step, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(steps)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ATTEMPT\tLEFT\tTOP\tANCHOR\tCURSOR\tFALLBACK\tSTATUS")
	for _, s := range steps {
		fmt.Fprintf(tw, "%d\t%g\t%g\t%d\t%d\t%s\t%s\n", s.Attempt, s.Left, s.Top, s.Anchor, s.Cursor, s.Fallback, s.Status)
	}
	return tw.Flush()
}
