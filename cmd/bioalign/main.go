// Command bioalign provides a CLI for pairwise and multiple sequence
// alignment.
//
// Usage:
//
//	bioalign [command] [options]
//
// Commands:
//
//	align       Align two sequences
//	batch       Align query/target FASTA files pairwise
//	search      Find the best local hit of a query in a FASTA file
//	msa         Progressive multiple alignment of a FASTA file
//	poa         Partial-order consensus of a FASTA file
//	cigar       Inspect and transform CIGAR strings
//	init        Write a default bioalign.yaml
//	version     Show version information
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
