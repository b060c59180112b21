package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/pziarsolo/bam-crumbs/bamstats"
)

var (
	out           = flag.String("out", "bam-stat", "Output path prefix")
	topK          = flag.Int("top", bamstats.DefaultExprOpts.TopK, "Number of most-abundant references to report")
	bins          = flag.Int("bins", 20, "Histogram bin count for the RPKM distribution")
	covThresholds = flag.String("cov-thresholds", "0,20,30,40", "Comma-separated mapq thresholds for the coverage histograms")
	gzipOut       = flag.Bool("gzip", false, "gzip-compress the report files")
	parallelism   = flag.Int("parallelism", 1, "BGZF decompression shards per BAM")
)

func bamStatUsage() {
	fmt.Printf("Usage: %s [OPTIONS] bampath...\n", os.Args[0])
	fmt.Printf("Each BAM needs its .bai index next to it (or at bampath + .bai).\n")
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func parseThresholds(s string) ([]int, error) {
	var thresholds []int
	for _, part := range strings.Split(s, ",") {
		t, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad -cov-thresholds term %q: %v", part, err)
		}
		thresholds = append(thresholds, t)
	}
	return thresholds, nil
}

func main() {
	flag.Usage = bamStatUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() < 1 {
		log.Fatalf("Missing positional arguments: at least one bampath required")
	}
	thresholds, err := parseThresholds(*covThresholds)
	if err != nil {
		log.Fatalf("%v", err)
	}
	ctx := vcontext.Background()
	opts := runOpts{
		OutPrefix:   *out,
		TopK:        *topK,
		Bins:        *bins,
		Thresholds:  thresholds,
		Gzip:        *gzipOut,
		Parallelism: *parallelism,
	}
	if err := run(ctx, flag.Args(), opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
