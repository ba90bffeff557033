package internal

import (
	"fmt"
	"os"
)

const Version = "0.3.0"

// PrintUsage writes the top-level cprag usage text to stderr.
func PrintUsage() {
	fmt.Fprintf(os.Stderr, `cprag - Semantic Search over Competitive Programming Articles

Version: %s

USAGE:
    cprag [global options] <command> [command options]

GLOBAL OPTIONS:
    -config <path>
        Path to config file (default: ~/.cprag/config.yaml)

    -version
        Show version information

    -h, -help
        Show this help message

COMMANDS:
    crawl
        Discover article URLs and download them into the local corpus

    search
        Search the corpus using natural language queries

    stats
        Show corpus statistics

EXAMPLES:
    # Crawl the cp-algorithms article set
    cprag crawl

    # Re-crawl URLs whose previous attempt did not finish
    cprag crawl -requeue

    # Search for articles
    cprag search "shortest path with negative edges"

    # Vector-only search with more results
    cprag search "segment tree lazy propagation" -vector-only -k 10

    # JSON output for scripting
    cprag search "string hashing" -json

    # Show corpus statistics
    cprag stats

For detailed help on each command, use:
    cprag <command> -help
`, Version)
}
