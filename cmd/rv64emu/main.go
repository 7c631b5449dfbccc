// Command rv64emu loads a flat RV64 binary image and runs it against the
// emulated CPU, bus, DRAM, and devices, printing a final register/CSR dump
// unless suppressed.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rv64emu/rv64emu/config"
	"github.com/rv64emu/rv64emu/loader"
	"github.com/rv64emu/rv64emu/rvlog"
	"github.com/rv64emu/rv64emu/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements the CLI and returns the process exit code, so main stays a
// one-line os.Exit wrapper and deferred cleanup still runs.
func run(args []string) int {
	flags, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if flags.showVersion {
		printVersion()
		return 0
	}
	if flags.showHelp || flags.filename == "" {
		printHelp()
		if flags.filename == "" && !flags.showHelp {
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	applyFlagOverrides(cfg, flags)

	logCloser, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logCloser()

	cpu, err := loader.Load(flags.filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var trace *vm.Trace
	if cfg.Trace.Enabled {
		trace, err = setupTrace(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer flushTrace(trace)
	}

	var stats *vm.Statistics
	if cfg.Statistics.Enabled {
		stats = vm.NewStatistics()
	}

	result := runLoop(cpu, cfg, trace, stats)

	logTermination(cpu, result)

	if stats != nil {
		if err := exportStats(stats, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if !cfg.Execution.Quiet {
		dumpState(os.Stdout, cpu)
	}
	return 0
}

// runLoop steps the CPU to termination, recording trace entries and
// statistics for every committed step along the way.
func runLoop(cpu *vm.CPU, cfg *config.Config, trace *vm.Trace, stats *vm.Statistics) vm.RunResult {
	cpu.NoTrap = cfg.Execution.NoTrap
	for {
		pc := cpu.PC
		raw, loadErr := cpu.Bus.Load(pc, 32)

		exc := cpu.Step()

		if stats != nil {
			stats.RecordStep(exc)
		}
		if trace != nil && loadErr == nil {
			trace.Record(cpu, pc, raw)
		}

		if exc != nil {
			if exc.IsFatal() {
				return vm.RunResult{Reason: vm.StopFatalException, Exception: exc}
			}
			if cfg.Execution.NoTrap {
				return vm.RunResult{Reason: vm.StopUntrapped, Exception: exc}
			}
			slog.Info("trap delivered", "exception", exc.String(),
				"pc", fmt.Sprintf("%#x", pc), "mode", cpu.Mode.String(),
				"target", fmt.Sprintf("%#x", cpu.PC))
		}
		if cpu.PC == 0 {
			return vm.RunResult{Reason: vm.StopZeroPC}
		}
		if cfg.Execution.MaxCycles != 0 && cpu.Cycles >= cfg.Execution.MaxCycles {
			return vm.RunResult{Reason: vm.StopMaxCycles}
		}
	}
}

func logTermination(cpu *vm.CPU, result vm.RunResult) {
	switch result.Reason {
	case vm.StopZeroPC:
		slog.Info("halted", "reason", "pc reached zero", "cycles", cpu.Cycles)
	case vm.StopMaxCycles:
		slog.Warn("halted", "reason", "max cycles exhausted", "cycles", cpu.Cycles)
	case vm.StopFatalException:
		slog.Warn("halted", "reason", "fatal exception", "exception", result.Exception.String(),
			"pc", fmt.Sprintf("%#x", cpu.PC-4), "mode", cpu.Mode.String())
	case vm.StopUntrapped:
		slog.Info("halted", "reason", "untrapped exception (--no-trap)", "exception", result.Exception.String(),
			"pc", fmt.Sprintf("%#x", cpu.PC-4), "mode", cpu.Mode.String())
	}
}

func setupLogging(cfg *config.Config) (func(), error) {
	level := rvlog.ParseLevel(cfg.Logging.Level)

	var out *os.File = os.Stderr
	closer := func() {}
	if cfg.Logging.OutputFile != "" {
		f, err := os.OpenFile(cfg.Logging.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 -- operator-supplied log path
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closer = func() {
			if cerr := f.Close(); cerr != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", cerr)
			}
		}
	}

	handler := rvlog.New(out, level, cfg.Execution.Quiet)
	slog.SetDefault(slog.New(handler))
	return closer, nil
}

func setupTrace(cfg *config.Config) (*vm.Trace, error) {
	path := cfg.Trace.OutputFile
	if path == "" {
		path = filepath.Join(config.GetLogPath(), "trace.log")
	}
	f, err := os.Create(path) // #nosec G304 -- operator-supplied trace output path
	if err != nil {
		return nil, fmt.Errorf("creating trace file %s: %w", path, err)
	}
	t := vm.NewTrace(f)
	if cfg.Trace.FilterRegisters != "" {
		t.SetFilterRegisters(strings.Split(cfg.Trace.FilterRegisters, ","))
	}
	return t, nil
}

func flushTrace(t *vm.Trace) {
	if err := t.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to flush trace: %v\n", err)
	}
	if closer, ok := t.Writer.(*os.File); ok {
		if err := closer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close trace file: %v\n", err)
		}
	}
}

func exportStats(s *vm.Statistics, cfg *config.Config) error {
	path := cfg.Statistics.OutputFile
	if path == "" {
		path = filepath.Join(config.GetLogPath(), "stats.json")
	}
	f, err := os.Create(path) // #nosec G304 -- operator-supplied statistics output path
	if err != nil {
		return fmt.Errorf("creating statistics file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close statistics file: %v\n", cerr)
		}
	}()

	if cfg.Statistics.Format == "text" {
		return s.ExportText(f)
	}
	return s.ExportJSON(f)
}

// regNames mirrors vm's ABI register names for the final dump; kept local
// rather than exported from vm to keep that package's surface to execution
// state only.
var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// dumpState prints the 32 integer registers (ABI mnemonics) and the named
// CSRs this core surfaces for observation, per the external-interface
// contract.
func dumpState(w *os.File, c *vm.CPU) {
	fmt.Fprintf(w, "pc   = %#018x   mode = %s   cycles = %d\n", c.PC, c.Mode, c.Cycles)
	for i := 0; i < 32; i += 4 {
		for j := 0; j < 4; j++ {
			fmt.Fprintf(w, "x%-2d/%-4s = %#018x  ", i+j, regNames[i+j], c.X[i+j])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "mstatus = %#018x   mtvec = %#018x   mepc  = %#018x   mcause = %#018x\n",
		c.CSR.LoadCSR(vm.MSTATUS), c.CSR.LoadCSR(vm.MTVEC), c.CSR.LoadCSR(vm.MEPC), c.CSR.LoadCSR(vm.MCAUSE))
	fmt.Fprintf(w, "sstatus = %#018x   stvec = %#018x   sepc  = %#018x   scause = %#018x\n",
		c.CSR.LoadCSR(vm.SSTATUS), c.CSR.LoadCSR(vm.STVEC), c.CSR.LoadCSR(vm.SEPC), c.CSR.LoadCSR(vm.SCAUSE))
}

func printVersion() {
	fmt.Printf("rv64emu %s\n", Version)
	if Commit != "unknown" {
		fmt.Printf("commit: %s\n", Commit)
	}
	if Date != "unknown" {
		fmt.Printf("built: %s\n", Date)
	}
}

func printHelp() {
	fmt.Print(`rv64emu - a user-space RV64I/M/A/Zicsr emulator

Usage:
  rv64emu <filename> [flags]

Flags:
  --no-trap              suppress trap delivery; first exception halts the run
  --max-cycles N         instruction budget before forced halt (0 = unbounded)
  --config PATH          TOML configuration file (default: platform config dir)
  --trace                enable per-instruction execution trace
  --trace-file PATH      trace output path (default: <log-dir>/trace.log)
  --trace-filter a0,a1   restrict the trace to named integer registers (ABI names)
  --stats                enable instruction/exception counters, dumped at exit
  --stats-file PATH      statistics output path (default: <log-dir>/stats.json)
  --stats-format F       statistics serialization format (json, text)
  --log-file PATH        structured log destination (default: stderr)
  --log-level L          debug, info, warn, error
  --quiet                suppress the final register/CSR dump
  --version              show version information
  --help                 show this help text
`)
}

// cliFlags holds the raw parsed command line, before it is folded into a
// config.Config by applyFlagOverrides.
type cliFlags struct {
	filename    string
	noTrap      bool
	noTrapSet   bool
	maxCycles   uint64
	maxCyclesOK bool
	configPath  string
	trace       bool
	traceSet    bool
	traceFile   string
	traceFilter string
	stats       bool
	statsSet    bool
	statsFile   string
	statsFormat string
	logFile     string
	logLevel    string
	quiet       bool
	quietSet    bool
	showVersion bool
	showHelp    bool
}

// parseFlags implements a minimal hand-rolled flag parser rather than the
// standard flag package: this core's CLI only ever receives a positional
// filename plus a small set of --flag / --flag=value options, and a custom
// parser keeps "unset" distinguishable from "set to the zero value" for the
// options that layer over config file defaults.
func parseFlags(args []string) (cliFlags, error) {
	f := cliFlags{logLevel: "", statsFormat: ""}

	i := 0
	for i < len(args) {
		arg := args[i]
		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")

		next := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag --%s requires a value", name)
			}
			i++
			return args[i], nil
		}

		if !strings.HasPrefix(arg, "--") {
			if f.filename != "" {
				return f, fmt.Errorf("unexpected extra argument %q", arg)
			}
			f.filename = arg
			i++
			continue
		}

		switch name {
		case "version":
			f.showVersion = true
		case "help":
			f.showHelp = true
		case "no-trap":
			f.noTrap, f.noTrapSet = true, true
		case "quiet":
			f.quiet, f.quietSet = true, true
		case "trace":
			f.trace, f.traceSet = true, true
		case "stats":
			f.stats, f.statsSet = true, true
		case "max-cycles":
			v, err := next()
			if err != nil {
				return f, err
			}
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return f, fmt.Errorf("invalid --max-cycles value %q: %w", v, err)
			}
			f.maxCycles, f.maxCyclesOK = n, true
		case "config":
			v, err := next()
			if err != nil {
				return f, err
			}
			f.configPath = v
		case "trace-file":
			v, err := next()
			if err != nil {
				return f, err
			}
			f.traceFile = v
		case "trace-filter":
			v, err := next()
			if err != nil {
				return f, err
			}
			f.traceFilter = v
		case "stats-file":
			v, err := next()
			if err != nil {
				return f, err
			}
			f.statsFile = v
		case "stats-format":
			v, err := next()
			if err != nil {
				return f, err
			}
			f.statsFormat = v
		case "log-file":
			v, err := next()
			if err != nil {
				return f, err
			}
			f.logFile = v
		case "log-level":
			v, err := next()
			if err != nil {
				return f, err
			}
			f.logLevel = v
		default:
			return f, fmt.Errorf("unknown flag --%s", name)
		}
		i++
	}
	return f, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// applyFlagOverrides folds explicitly-set CLI flags over the config file's
// defaults; command-line options always win over the config layer.
func applyFlagOverrides(cfg *config.Config, f cliFlags) {
	if f.noTrapSet {
		cfg.Execution.NoTrap = f.noTrap
	}
	if f.maxCyclesOK {
		cfg.Execution.MaxCycles = f.maxCycles
	}
	if f.quietSet {
		cfg.Execution.Quiet = f.quiet
	}
	if f.traceSet {
		cfg.Trace.Enabled = f.trace
	}
	if f.traceFile != "" {
		cfg.Trace.OutputFile = f.traceFile
	}
	if f.traceFilter != "" {
		cfg.Trace.FilterRegisters = f.traceFilter
	}
	if f.statsSet {
		cfg.Statistics.Enabled = f.stats
	}
	if f.statsFile != "" {
		cfg.Statistics.OutputFile = f.statsFile
	}
	if f.statsFormat != "" {
		cfg.Statistics.Format = f.statsFormat
	}
	if f.logFile != "" {
		cfg.Logging.OutputFile = f.logFile
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
}
