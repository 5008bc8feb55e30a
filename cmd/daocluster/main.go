// Command daocluster is a thin example driver: it reads a whitespace
// edge-list file, builds a Graph, runs the Clusterer, and writes the
// root-level clusters out in CNL text format. It exists to exercise the
// library end to end, not as a production-grade CLI.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dd0wney/daocluster/pkg/clusterer"
	"github.com/dd0wney/daocluster/pkg/config"
	"github.com/dd0wney/daocluster/pkg/graphmodel"
	"github.com/dd0wney/daocluster/pkg/logging"
	"github.com/dd0wney/daocluster/pkg/metrics"
	"github.com/dd0wney/daocluster/pkg/output"
	"github.com/dd0wney/daocluster/pkg/runtime"
)

func main() {
	inPath := flag.String("in", "", "edge-list input file: one '<src> <dst> [weight]' triple per line")
	outPath := flag.String("out", "clusters.cnl", "CNL output path")
	gamma := flag.Float64("gamma", 1.0, "modularity resolution")
	directed := flag.Bool("directed", false, "treat input edges as directed")
	shuffle := flag.Bool("shuffle", false, "shuffle node ingestion order")
	seed := flag.Int64("seed", 1, "PRNG seed")
	fuzzy := flag.Bool("fuzzy", false, "record fuzzy-overlap activation counts (group size); each item still joins one cluster per level, so output shares are unchanged")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "daocluster: -in is required")
		os.Exit(2)
	}

	logger := logging.NewJSONLogger(os.Stderr, logging.InfoLevel)
	rt := runtime.New(logger, *seed)
	reg := metrics.NewRegistry()

	nodes, err := loadGraph(*inPath, rt, *directed, *shuffle)
	if err != nil {
		logger.Error("failed to load graph", logging.Error(err))
		os.Exit(1)
	}

	opts := config.DefaultClusterOptions()
	opts.Gamma = float32(*gamma)
	opts.FuzzyOverlap = *fuzzy

	start := time.Now()
	h, err := clusterer.Cluster(nodes, opts, rt, reg)
	if err != nil {
		logger.Error("clustering failed", logging.Error(err))
		os.Exit(1)
	}
	reg.RecordRun(len(nodes), countLinks(nodes), len(h.Levels), h.Gamma, time.Since(start))

	score := h.ComputeScore()
	logger.Info("clustering complete",
		logging.Int("levels", len(h.Levels)),
		logging.Float64("modularity", score.Modularity),
		logging.Int("clusters", score.Clusters),
	)

	f, err := os.Create(*outPath)
	if err != nil {
		logger.Error("failed to create output file", logging.Error(err))
		os.Exit(1)
	}
	defer f.Close()

	sel := output.New(h)
	selected := sel.Select(output.ModeRoot, output.CustLevsOptions{}, output.SignificantOptions{})
	n, err := output.WriteCNL(f, selected, output.FormatSimple, false, true, false)
	if err != nil {
		reg.RecordOutputWriteError()
		logger.Error("failed to write output", logging.Error(err))
		os.Exit(1)
	}
	reg.RecordOutputSelection("root", n)

	fmt.Printf("wrote %d clusters to %s\n", n, *outPath)
}

func countLinks(nodes []graphmodel.Node) int {
	n := 0
	for _, node := range nodes {
		n += len(node.Links)
	}
	return n
}

// loadGraph reads "<src> <dst> [weight]" triples, one per line, creating
// nodes on first reference. Blank lines and lines starting with '#' are
// skipped.
func loadGraph(path string, rt *runtime.Runtime, directed, shuffle bool) ([]graphmodel.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("daocluster: %w", err)
	}
	defer f.Close()

	g := graphmodel.New(rt, 1024, shuffle, true, config.ReductionNone)
	g.SetDirected(directed)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("daocluster: malformed line %q", line)
		}
		src, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("daocluster: bad src %q: %w", fields[0], err)
		}
		dst, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("daocluster: bad dst %q: %w", fields[1], err)
		}
		weight := 1.0
		if len(fields) >= 3 {
			weight, err = strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("daocluster: bad weight %q: %w", fields[2], err)
			}
		}
		if err := g.AddNodeAndLinks(directed, uint32(src), []graphmodel.Link{{Dest: uint32(dst), Weight: weight}}); err != nil {
			return nil, fmt.Errorf("daocluster: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("daocluster: %w", err)
	}

	if g.Errors().HasDuplicates() {
		rt.Logger.Warn("duplicates during ingestion", logging.String("detail", g.Errors().Show()))
	}

	nodes, _ := g.Release()
	return nodes, nil
}
