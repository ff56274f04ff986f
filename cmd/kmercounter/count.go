package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/logik1286/kmerCounter/internal/fastq"
	"github.com/logik1286/kmerCounter/internal/report"
	"github.com/logik1286/kmerCounter/kmer"
)

// progressEvery is the record interval between progress lines.
const progressEvery = 10000

type params struct {
	inputFile string
	kmerWidth int
	topCount  int
	precision kmer.Precision
	strategy  kmer.Strategy
	output    string
}

func parseParams(args []string) (params, error) {
	var p params
	p.inputFile = args[0]

	k, err := strconv.Atoi(args[1])
	if err != nil || k < 1 {
		return p, kmer.Errf(kmer.KindInvalidArg, "invalid kmer width : %s", args[1])
	}
	p.kmerWidth = k

	top, err := strconv.Atoi(args[2])
	if err != nil || top < 1 {
		return p, kmer.Errf(kmer.KindInvalidArg, "invalid topKmersToReport : %s", args[2])
	}
	p.topCount = top

	prec, err := strconv.Atoi(args[3])
	if err != nil || prec < 0 || prec > 3 {
		return p, kmer.Errf(kmer.KindInvalidArg, "invalid precision : %s", args[3])
	}
	p.precision = kmer.Precision(prec)

	strat, err := strconv.Atoi(args[4])
	if err != nil || strat < 0 || strat > 2 {
		return p, kmer.Errf(kmer.KindInvalidArg, "invalid counter type : %s", args[4])
	}
	p.strategy = kmer.Strategy(strat)

	if len(args) == 6 {
		p.output = args[5]
	}
	return p, nil
}

// classifyReadError maps reader failures onto the error taxonomy.
func classifyReadError(err error) error {
	var base *fastq.BaseError
	switch {
	case errors.As(err, &base):
		return kmer.Wrap(kmer.KindBadBase, err, "reading FASTQ entry")
	case errors.Is(err, fastq.ErrBadSeqID), errors.Is(err, fastq.ErrBadMarker), errors.Is(err, fastq.ErrTruncated):
		return kmer.Wrap(kmer.KindBadRecord, err, "reading FASTQ entry")
	default:
		return kmer.Wrap(kmer.KindIORead, err, "reading FASTQ stream")
	}
}

func runCount(cmd *cobra.Command, args []string) error {
	p, err := parseParams(args)
	if err != nil {
		return err
	}

	f, err := os.Open(p.inputFile)
	if err != nil {
		return kmer.Wrap(kmer.KindIORead, err, "opening input file "+p.inputFile)
	}
	defer f.Close()

	cfg := kmer.DefaultConfig(p.kmerWidth)
	cfg.Precision = p.precision
	cfg.Strategy = p.strategy
	counter, err := kmer.New(cfg)
	if err != nil {
		return err
	}
	defer counter.Close()

	reader := fastq.NewReader(f)
	processed := 0
	start := time.Now()
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return classifyReadError(err)
		}
		if processed%progressEvery == 0 {
			printVerbose("processed %d\n", processed)
		}
		if err := counter.AddSequence(rec.Sequence); err != nil {
			return err
		}
		processed++
	}
	if processed == 0 {
		return kmer.Errf(kmer.KindEmptyInput, "nothing read")
	}

	printVerbose("Getting mers\n")
	mers, err := counter.TopMers(p.topCount, 0)
	if err != nil {
		return err
	}

	elapsed := time.Since(start).Seconds()
	printVerbose("Total time [s] : %g\n", elapsed)
	printVerbose("Time per entry [ms] : %g\n", elapsed/float64(processed)*1000.0)

	if len(mers) == 0 {
		return kmer.Errf(kmer.KindEmptyInput, "no kmers produced")
	}
	if len(mers) < p.topCount {
		printWarning("Warning. Specified top %d of kmers, only %d were found.\n", p.topCount, len(mers))
	}

	var out bytes.Buffer
	saturated := false
	for _, m := range mers {
		fmt.Fprintf(&out, "%s,%d\n", m.Sequence, m.Count)
		if m.Count == counter.MaxCount() {
			saturated = true
		}
	}

	if p.output != "" {
		if err := report.WriteFile(p.output, out.Bytes()); err != nil {
			return kmer.Wrap(kmer.KindIORead, err, "writing output log")
		}
	} else {
		if _, err := os.Stdout.Write(out.Bytes()); err != nil {
			return kmer.Wrap(kmer.KindIORead, err, "writing report")
		}
	}

	if saturated {
		printWarning("Warning, counters appear to be saturating. Consider increasing precision parameter.\n")
	}
	return nil
}
