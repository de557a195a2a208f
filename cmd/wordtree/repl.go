package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	"gopkg.in/yaml.v3"

	"github.com/mstrachan/wordtree/internal/config"
	"github.com/mstrachan/wordtree/pkg/avltree"
)

// REPL is the interactive command loop for an open index.
type REPL struct {
	idx   *avltree.Index
	path  string
	cfg   config.Config
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".wordtree_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("wordtree - word multiset CLI (%s)\n", r.path)
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("wordtree> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "put":
			r.cmdPut(args)

		case "putn":
			r.cmdPutN(args)

		case "del", "delete":
			r.cmdDelete(args)

		case "get":
			r.cmdGet(args)

		case "scan", "ls", "list":
			r.cmdScan(args)

		case "stats":
			r.cmdStats()

		case "load":
			r.cmdLoad(args)

		case "export":
			r.cmdExport(args)

		case "edit":
			r.cmdEdit()

		case "bench":
			r.cmdBench(args)

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"put", "putn", "del", "delete", "get",
		"scan", "ls", "list", "stats",
		"load", "export", "edit", "bench",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  put <word>               Insert one occurrence of word")
	fmt.Println("  putn <word> <n>          Insert n occurrences of word")
	fmt.Println("  del <word>               Remove one occurrence of word")
	fmt.Println("  get <word>               Print the occurrence count of word")
	fmt.Println("  scan [prefix]            List words in lexicographic order")
	fmt.Println("  stats                    Show items/unique counts")
	fmt.Println("  load <file>              Bulk-insert whitespace-separated words from file")
	fmt.Println("  export <file.json|.yaml> Snapshot the full multiset to disk")
	fmt.Println("  edit                     Compose words in $EDITOR, then bulk-insert them")
	fmt.Println("  bench <count>            Insert count sequential words, report timing")
	fmt.Println("  help                     Show this help")
	fmt.Println("  exit / quit / q          Exit")
}

func (r *REPL) cmdPut(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: put <word>")

		return
	}

	if err := r.idx.Insert(args[0]); err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	count, err := r.idx.LookupCount(args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("OK: %q count=%d\n", args[0], count)
}

func (r *REPL) cmdPutN(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: putn <word> <n>")

		return
	}

	n, err := strconv.Atoi(args[1])
	if err != nil || n < 0 {
		fmt.Printf("Invalid count: %s\n", args[1])

		return
	}

	for range n {
		if err := r.idx.Insert(args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)

			return
		}
	}

	count, err := r.idx.LookupCount(args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("OK: %q count=%d\n", args[0], count)
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: del <word>")

		return
	}

	if err := r.idx.Delete(args[0]); err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	count, err := r.idx.LookupCount(args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("OK: %q count=%d\n", args[0], count)
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: get <word>")

		return
	}

	count, err := r.idx.LookupCount(args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("%q: %d\n", args[0], count)
}

func (r *REPL) cmdScan(args []string) {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	n := 0

	err := r.idx.Traverse(func(key string, count uint64) bool {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return true
		}

		fmt.Printf("%-20s %d\n", key, count)
		n++

		return true
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("(%d words)\n", n)
}

func (r *REPL) cmdStats() {
	items, err := r.idx.Items()
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	unique, err := r.idx.Unique()
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("items:  %d\n", items)
	fmt.Printf("unique: %d\n", unique)
}

func (r *REPL) cmdLoad(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: load <file>")

		return
	}

	data, err := os.ReadFile(args[0]) //nolint:gosec // user-driven CLI command
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", args[0], err)

		return
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Split(bufio.ScanWords)

	n := 0

	for scanner.Scan() {
		if err := r.idx.Insert(scanner.Text()); err != nil {
			fmt.Printf("Error inserting %q: %v\n", scanner.Text(), err)

			return
		}

		n++
	}

	fmt.Printf("OK: loaded %d words\n", n)
}

type exportEntry struct {
	Word  string `json:"word" yaml:"word"`
	Count uint64 `json:"count" yaml:"count"`
}

func (r *REPL) cmdExport(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: export <file.json|.yaml>")

		return
	}

	var entries []exportEntry

	err := r.idx.Traverse(func(key string, count uint64) bool {
		entries = append(entries, exportEntry{Word: key, Count: count})

		return true
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	var buf []byte

	switch ext := filepath.Ext(args[0]); ext {
	case ".yaml", ".yml":
		buf, err = yaml.Marshal(entries)
	default:
		buf, err = json.MarshalIndent(entries, "", "  ")
	}

	if err != nil {
		fmt.Printf("Error encoding export: %v\n", err)

		return
	}

	if err := atomic.WriteFile(args[0], bytes.NewReader(buf)); err != nil {
		fmt.Printf("Error writing %s: %v\n", args[0], err)

		return
	}

	fmt.Printf("OK: exported %d words to %s\n", len(entries), args[0])
}

var errNoEditorFound = errors.New("no editor found: set config editor or $EDITOR")

// resolveEditor picks an editor using config.Editor, then $EDITOR, then a
// short list of common fallbacks.
func resolveEditor(cfg config.Config) (string, error) {
	if cfg.Editor != "" {
		if _, err := exec.LookPath(cfg.Editor); err == nil {
			return cfg.Editor, nil
		}
	}

	if editor := os.Getenv("EDITOR"); editor != "" {
		if _, err := exec.LookPath(editor); err == nil {
			return editor, nil
		}
	}

	for _, candidate := range []string{"vi", "nano"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errNoEditorFound
}

// cmdEdit opens a blank scratch file in the user's editor for composing a
// batch of words, then bulk-inserts every whitespace-separated token found
// in it once the editor exits.
func (r *REPL) cmdEdit() {
	editor, err := resolveEditor(r.cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	tmp, err := os.CreateTemp("", "wordtree-edit-*.txt")
	if err != nil {
		fmt.Printf("Error creating scratch file: %v\n", err)

		return
	}

	tmpPath := tmp.Name()
	_ = tmp.Close()

	defer os.Remove(tmpPath)

	cmd := exec.Command(editor, tmpPath) //nolint:gosec // editor path resolved via exec.LookPath
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("Error running editor: %v\n", err)

		return
	}

	data, err := os.ReadFile(tmpPath) //nolint:gosec // our own temp file
	if err != nil {
		fmt.Printf("Error reading scratch file: %v\n", err)

		return
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Split(bufio.ScanWords)

	n := 0

	for scanner.Scan() {
		if err := r.idx.Insert(scanner.Text()); err != nil {
			fmt.Printf("Error inserting %q: %v\n", scanner.Text(), err)

			return
		}

		n++
	}

	fmt.Printf("OK: inserted %d words from editor\n", n)
}

func (r *REPL) cmdBench(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: bench <count>")

		return
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count <= 0 {
		fmt.Printf("Invalid count: %s\n", args[0])

		return
	}

	start := time.Now()

	for i := range count {
		word := "bench-" + strconv.Itoa(i)
		if err := r.idx.Insert(word); err != nil {
			fmt.Printf("Error at insert %d: %v\n", i, err)

			return
		}
	}

	elapsed := time.Since(start)

	fmt.Printf("inserted %d words in %s (%.0f words/sec)\n", count, elapsed, float64(count)/elapsed.Seconds())
}
