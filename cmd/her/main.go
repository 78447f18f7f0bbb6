//go:build !(js && wasm)

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"gopkg.in/yaml.v3"

	herlang "github.com/justjavac/herlang"
)

const (
	appName     = "her"
	historyFile = ".herlang_history"
	configFile  = ".herlang.yaml"
)

var banner = fmt.Sprintf("herlang %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", herlang.Version)

// replConfig is the optional ~/.herlang.yaml. Missing file or missing
// fields fall back to the defaults below.
type replConfig struct {
	Prompt     string `yaml:"prompt"`
	ContPrompt string `yaml:"contPrompt"`
	Color      *bool  `yaml:"color"`
	History    string `yaml:"history"`
}

func loadConfig() replConfig {
	cfg := replConfig{Prompt: "her> ", ContPrompt: "...> "}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	raw, err := os.ReadFile(filepath.Join(home, configFile))
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s: ignoring bad %s: %v\n", appName, configFile, err)
		return replConfig{Prompt: "her> ", ContPrompt: "...> "}
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "her> "
	}
	if cfg.ContPrompt == "" {
		cfg.ContPrompt = "...> "
	}
	return cfg
}

func (c replConfig) colorOn() bool { return c.Color == nil || *c.Color }

func (c replConfig) historyPath() string {
	if c.History != "" {
		return c.History
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, historyFile)
}

var colorEnabled = true

func red(s string) string {
	if !colorEnabled {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func blue(s string) string {
	if !colorEnabled {
		return s
	}
	return "\x1b[94m" + s + "\x1b[0m"
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	case "version":
		fmt.Println(herlang.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`herlang %s

Usage:
  %s run <file.her>          Run a script.
  %s repl                    Start the REPL.
  %s fmt [--check] <file ...>  Rewrite file(s) in canonical form.
  %s version                 Print the version.

`, herlang.Version, appName, appName, appName, appName)
}

func newHostInterpreter() *herlang.Interpreter {
	return herlang.NewInterpreter(herlang.Hooks{
		Print: func(s string) { fmt.Print(s) },
		Exit:  os.Exit,
	})
}

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.her>\n", appName)
		return 2
	}
	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := newHostInterpreter()
	if _, err := ip.EvalSource(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, herlang.WrapErrorWithName(err, file, string(src)).Error())
		return 1
	}
	return 0
}

func cmdRepl(_ []string) int {
	cfg := loadConfig()
	colorEnabled = cfg.colorOn()
	fmt.Println(banner)

	histPath := cfg.historyPath()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := newHostInterpreter()

	for {
		code, ok := readByParseProbe(ln, cfg.Prompt, cfg.ContPrompt)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}
		if trimmed == "" {
			continue
		}

		v, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(herlang.WrapErrorWithSource(err, code).Error()))
			continue
		}
		fmt.Println(blue(herlang.FormatValue(v)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe accumulates lines until the input parses, or fails
// with an error that is not plain truncation. Truncation keeps the
// continuation prompt going so braces can close on later lines.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := herlang.Parse(src)
		if perr == nil {
			return src, true
		}
		if herlang.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

func cmdFmt(args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	check := fs.Bool("check", false, "check format; exit 1 if any file would change")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s fmt [--check] <file ...>\n", appName)
		return 2
	}

	bad := 0
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
			return 1
		}
		out, err := herlang.Format(string(src))
		if err != nil {
			fmt.Fprintln(os.Stderr, herlang.WrapErrorWithName(err, file, string(src)).Error())
			return 1
		}
		if out == string(src) {
			continue
		}
		if *check {
			fmt.Println(file)
			bad++
			continue
		}
		if err := os.WriteFile(file, []byte(out), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot write %s: %v\n", appName, file, err)
			return 1
		}
	}
	if bad > 0 {
		return 1
	}
	return 0
}
