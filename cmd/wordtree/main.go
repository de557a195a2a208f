// wordtree is a CLI for interacting with word-multiset index files backed
// by Storage-Class Memory.
//
// Usage:
//
//	wordtree new [opts] <path>   Create a new index file
//	wordtree [opts] <path>       Open an existing index file
//
// Options for 'new':
//
//	-c, --capacity   Region capacity in bytes (default: from config)
//	--config         Use specified config file
//
// Options for opening:
//
//	--config         Use specified config file
//	--truncate       Zero the index before opening
//
// Commands (in REPL):
//
//	put <word>              Insert one occurrence of word
//	putn <word> <n>         Insert n occurrences of word
//	del <word>               Remove one occurrence of word
//	get <word>               Print the occurrence count of word
//	scan [prefix]            List words in lexicographic order
//	stats                    Show items/unique counts
//	load <file>              Bulk-insert whitespace-separated words from file
//	export <file.json|.yaml> Snapshot the full multiset to disk
//	edit                     Compose words in $EDITOR, then bulk-insert them
//	bench <count>            Insert count sequential words, report timing
//	help                     Show this help
//	exit / quit / q          Exit
package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/mstrachan/wordtree/internal/config"
	"github.com/mstrachan/wordtree/internal/wlog"
	"github.com/mstrachan/wordtree/pkg/avltree"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()

		return errors.New("missing command or index file path")
	}

	if os.Args[1] == "new" {
		return runNew(os.Args[2:])
	}

	return runOpen(os.Args[1:])
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  wordtree [opts] <path>       Open an existing index file\n")
	fmt.Fprintf(os.Stderr, "  wordtree new [opts] <path>   Create a new index file\n")
	fmt.Fprintf(os.Stderr, "\nRun 'wordtree new --help' for options when creating a new index.\n")
}

func runNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)

	capacity := fs.Int64P("capacity", "c", 0, "region capacity in bytes")
	configPath := fs.String("config", "", "use specified config file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wordtree new [options] <path>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()

		return errors.New("missing index file path")
	}

	path := fs.Arg(0)

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("index file already exists: %s (use 'wordtree %s' to open it)", path, path)
	}

	cfg, err := loadCLIConfig(*configPath)
	if err != nil {
		return err
	}

	if *capacity <= 0 {
		*capacity = cfg.DefaultCapacity
	}

	fmt.Printf("Creating index with:\n")
	fmt.Printf("  Path:     %s\n", path)
	fmt.Printf("  Capacity: %d bytes\n", *capacity)
	fmt.Println()

	idx, err := avltree.Open(avltree.Options{
		Path:     path,
		Truncate: true,
		Capacity: *capacity,
		Logger:   wlog.NewStandard("wordtree: "),
	})
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}
	defer idx.Close()

	repl := &REPL{idx: idx, path: path, cfg: cfg}

	return repl.Run()
}

func runOpen(args []string) error {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)

	configPath := fs.String("config", "", "use specified config file")
	truncate := fs.Bool("truncate", false, "zero the index before opening")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wordtree [options] <path>\n\nOpen an existing index file.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()

		return errors.New("missing index file path")
	}

	path := fs.Arg(0)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("index file does not exist: %s (use 'wordtree new %s' to create it)", path, path)
	}

	cfg, err := loadCLIConfig(*configPath)
	if err != nil {
		return err
	}

	idx, err := avltree.Open(avltree.Options{
		Path:     path,
		Truncate: *truncate,
		Logger:   wlog.NewStandard("wordtree: "),
	})
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer idx.Close()

	repl := &REPL{idx: idx, path: path, cfg: cfg}

	return repl.Run()
}

// loadCLIConfig loads wordtree's layered config relative to the current
// working directory, honoring an explicit --config path if given.
func loadCLIConfig(configPath string) (config.Config, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("getwd: %w", err)
	}

	cfg, _, err := config.Load(workDir, configPath, config.Config{}, false, os.Environ())

	return cfg, err
}
