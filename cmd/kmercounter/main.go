// Package main provides kmercounter, a FASTQ k-mer frequency counter.
package main

import "os"

func main() {
	os.Exit(execute())
}
