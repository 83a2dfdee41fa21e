package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"golang.org/x/text/width"

	"github.com/airylang/airyc/internal/analyzer"
	"github.com/airylang/airyc/internal/backend"
	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/discover"
	"github.com/airylang/airyc/internal/logging"
	"github.com/airylang/airyc/internal/project"
)

var (
	Version = "dev"
	Commit  = "unknown"

	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		traceFlag   = flag.Bool("trace", false, "Enable component-scoped debug tracing")
		entryFlag   = flag.String("i", "", "entry .airy file")
		outFlag     = flag.String("o", ".", "output directory for emitted .ll files")
		jsonFlag    = flag.Bool("json", false, "emit diagnostics as JSON (schema airyc.error/v1)")
		_           = flag.String("r", "", "runtime archive path (passed through to the linker, not used by compile_to_ir_*)")
		_           = flag.String("O", "o0", "optimization level: o0|o1|o2|o3 (reserved; the IR backend does not yet run optimization passes)")
	)
	flag.Parse()
	logging.SetEnabled(*traceFlag)

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	manifest, err := project.LoadManifest("airyc.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: airyc.yaml: %v\n", red("Error"), err)
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "build":
		entry := resolveEntry(*entryFlag, manifest)
		if entry == "" && flag.NArg() >= 2 {
			entry = flag.Arg(1)
		}
		if entry == "" {
			fmt.Fprintf(os.Stderr, "%s: missing entry file (-i or airyc.yaml entry:)\n", red("Error"))
			os.Exit(1)
		}
		os.Exit(runBuild(entry, *outFlag, *jsonFlag))

	case "check":
		entry := resolveEntry(*entryFlag, manifest)
		if entry == "" && flag.NArg() >= 2 {
			entry = flag.Arg(1)
		}
		if entry == "" {
			fmt.Fprintf(os.Stderr, "%s: missing entry file (-i or airyc.yaml entry:)\n", red("Error"))
			os.Exit(1)
		}
		os.Exit(runCheck(entry, *jsonFlag))

	case "check-watch":
		entry := *entryFlag
		if entry == "" && flag.NArg() >= 2 {
			entry = flag.Arg(1)
		}
		if entry == "" {
			fmt.Fprintf(os.Stderr, "%s: missing entry file (-i)\n", red("Error"))
			os.Exit(1)
		}
		runCheckWatch(entry)

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

// compile runs the full pipeline (§3 "discover -> allocate -> import ->
// fill -> analyze-each") and returns the resolved project plus every
// diagnostic raised along the way.
func compile(entry string) (*project.Resolver, []*diag.Report) {
	disc := discover.Discover(entry)
	r := project.Resolve(disc)
	semantic := analyzer.AnalyzeAll(r)

	all := append([]*diag.Report(nil), disc.Diagnostics...)
	all = append(all, r.Diagnostics...)
	all = append(all, semantic...)
	return r, all
}

func runCheck(entry string, asJSON bool) int {
	_, diags := compile(entry)
	reportDiagnostics(diags, asJSON)
	if hasErrors(diags) {
		return 1
	}
	fmt.Println(green("OK") + ": no diagnostics")
	return 0
}

// runBuild compiles every module discovered from entry to its own LLVM
// IR text file in outDir (`compile_to_ir_file`, §6). It does not invoke
// a linker; orchestrating `clang`/`ld` over the emitted `.ll` files is
// the external collaborator spec.md §1 assigns to the CLI, left here as
// a documented next step rather than implemented.
func runBuild(entry, outDir string, asJSON bool) int {
	r, diags := compile(entry)
	reportDiagnostics(diags, asJSON)
	if hasErrors(diags) {
		return 1
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 1
	}

	for _, id := range r.Order {
		m := r.Modules[id]
		outPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(m.Path), filepath.Ext(m.Path))+".ll")
		if err := backend.CompileIRFile(m, r.Metadata, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", red("Error"), m.Path, err)
			return 1
		}
		fmt.Printf("%s %s -> %s\n", cyan("emit"), m.Path, outPath)
	}
	return 0
}

// runCheckWatch is an interactive "recheck on keypress" loop over a
// project (§5's incremental façade exercised outside a real LSP
// transport): every Enter press reruns the full pipeline and reprints
// diagnostics, using peterh/liner for line editing the way the teacher's
// REPL does.
func runCheckWatch(entry string) {
	fmt.Printf("%s %s (press Enter to recheck, Ctrl-D to quit)\n", bold("watching"), entry)
	line := liner.NewLiner()
	defer line.Close()

	for {
		_, err := line.Prompt("> ")
		if err != nil {
			break
		}
		_, diags := compile(entry)
		reportDiagnostics(diags, false)
		if !hasErrors(diags) {
			fmt.Println(green("OK"))
		}
	}
}

func hasErrors(diags []*diag.Report) bool { return len(diags) > 0 }

// resolveEntry prefers an explicit -i flag, falling back to the
// airyc.yaml workspace manifest's entry: field (§2 domain stack).
func resolveEntry(flagVal string, m *project.Manifest) string {
	if flagVal != "" {
		return flagVal
	}
	if m != nil {
		return m.Entry
	}
	return ""
}

func reportDiagnostics(diags []*diag.Report, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		for _, d := range diags {
			enc.Encode(d)
		}
		return
	}
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].File != diags[j].File {
			return diags[i].File < diags[j].File
		}
		return diags[i].Start < diags[j].Start
	})
	for _, d := range diags {
		fmt.Printf("%s %s: %s: %s\n", yellow(d.File), red(d.Code), string(d.Phase), d.Message)
		printCaret(d)
	}
}

// printCaret renders the offending source line with a caret under the
// diagnostic's range, width-aligned with golang.org/x/text/width so East
// Asian wide and fullwidth runes in the source don't throw the caret off
// (§2 domain stack). Every other rune, combining marks included, counts
// as one column.
func printCaret(d *diag.Report) {
	data, err := os.ReadFile(d.File)
	if err != nil {
		return
	}
	text := string(data)
	_, col, lineText := lineAt(text, d.Start)
	fmt.Printf("  %s\n", lineText)
	fmt.Printf("  %s%s\n", strings.Repeat(" ", displayWidth(lineText[:col])), cyan("^"))
}

// lineAt returns the start offset, the byte column within that line, and
// the full line text containing offset.
func lineAt(text string, offset int) (start, col int, line string) {
	if offset > len(text) {
		offset = len(text)
	}
	start = strings.LastIndexByte(text[:offset], '\n') + 1
	end := strings.IndexByte(text[offset:], '\n')
	if end == -1 {
		end = len(text)
	} else {
		end += offset
	}
	return start, offset - start, text[start:end]
}

// displayWidth sums the terminal column width of s, counting East Asian
// Wide/Fullwidth runes as two columns and everything else as one.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

func printVersion() {
	fmt.Printf("airyc %s (%s)\n", Version, Commit)
}

func printHelp() {
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	fmt.Fprintln(w, bold("airyc")+" - the Airy language compiler")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  airyc build -i <entry.airy> -o <out-dir> [-r <runtime.a>] [-O o0|o1|o2|o3]")
	fmt.Fprintln(w, "  airyc check -i <entry.airy> [-json]")
	fmt.Fprintln(w, "  airyc check-watch -i <entry.airy>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
}
