package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logik1286/kmerCounter/kmer"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "kmercounter <inputFile> <kmerSize> <topKmersToReport> <precision> <counterType> [output]",
	Short: "Report the most frequent k-mers in a FASTQ read file",
	Long: `kmercounter counts every k-mer in a FASTQ read file and reports the top
N most frequent ones as "<sequence>,<count>" lines, ordered by count
descending.

Arguments:
  inputFile         FASTQ file to process
  kmerSize          number of base pairs in a mer
  topKmersToReport  the number of most frequent kmers to report
  precision         size of accumulators. 0 = 1 byte (max 2^8-1),
                    1 = 2 bytes (max 2^16-1), 2 = 4 bytes (max 2^32-1),
                    3 = 8 bytes (max 2^64-1)
  counterType       counting algorithm to use. 0 = sort and accumulate
                    (fast, worse memory), 1 = ordered map (deterministic
                    tie order), 2 = hash map (better speed, tie order
                    unspecified)
  output [optional] file to write top kmers to; stdout when omitted`,
	Version: "0.1.0",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(5, 6)(cmd, args); err != nil {
			return kmer.Wrap(kmer.KindInvalidArg, err, "invalid number of arguments")
		}
		return nil
	},
	RunE:          runCount,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable progress and timing output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors and results")
}

func execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Got errors:")
		if kind := kmer.KindOf(err); kind != kmer.KindNone {
			fmt.Fprintf(os.Stderr, "%d : %v\n", int(kind), err)
			if kind == kmer.KindInvalidArg {
				_ = rootCmd.Usage()
			}
		} else {
			fmt.Fprintf(os.Stderr, "1 : %v\n", err)
		}
		return 1
	}
	return 0
}

// printVerbose prints a progress message in verbose mode.
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printWarning prints a warning to stderr unless in quiet mode. Warnings
// never affect the exit code.
func printWarning(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
