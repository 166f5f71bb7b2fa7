// moo CLI - evaluates list and string built-in calls on literal arguments
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tliron/commonlog"

	"github.com/chazu/moocore/builtins"
	"github.com/chazu/moocore/options"
	"github.com/chazu/moocore/vm"
	"github.com/chazu/moocore/vm/pattern"
	"github.com/chazu/moocore/vm/wire"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// session evaluates calls against one registry and collector.
type session struct {
	registry *builtins.Registry
	gc       *vm.GCQueue
	format   string
	progr    vm.Objid
	out      io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("moo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Int("v", -1, "Log verbosity (overrides the options file)")
	configDir := fs.String("config", "", "Directory containing moo.toml (default: search upward from the working directory)")
	format := fs.String("format", "literal", "Result format: literal, tostr or cbor")
	logFile := fs.String("log", "", "Log file (default: stderr)")
	stats := fs.Bool("stats", false, "Print heap, collector and pattern cache statistics on exit")
	list := fs.Bool("list", false, "List the available built-in functions")
	progr := fs.Int64("progr", 2, "Object number of the programmer the calls run as")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: moo [options] [call...]\n\n")
		fmt.Fprintf(stderr, "Evaluates built-in function calls with literal arguments. Calls are read\n")
		fmt.Fprintf(stderr, "from standard input, one per line, when none are given.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  moo 'listappend({1, 2}, 3)'\n")
		fmt.Fprintf(stderr, "  moo 'match(\"foobar\", \"o*b\")'\n")
		fmt.Fprintf(stderr, "  moo -format tostr 'strsub(\"hello\", \"l\", \"L\")'\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	switch *format {
	case "literal", "tostr", "cbor":
	default:
		fmt.Fprintf(stderr, "Error: unknown format %q\n", *format)
		return 2
	}

	opts, err := loadOptions(*configDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *verbose >= 0 {
		opts.Log.Verbosity = *verbose
	}
	logPath := opts.LogPath()
	if *logFile != "" {
		logPath = logFile
	}
	commonlog.Configure(opts.Log.Verbosity, logPath)

	cache := pattern.NewCache(opts.Pattern.CacheSize, pattern.RegexpCompiler{Timeout: opts.Pattern.MatchTimeout.Duration})
	s := &session{
		registry: builtins.New(opts, cache),
		gc:       vm.NewGCQueue(),
		format:   *format,
		progr:    vm.Objid(*progr),
		out:      stdout,
	}
	previous := vm.SetCollector(s.gc)
	defer vm.SetCollector(previous)

	if *list {
		for _, name := range s.registry.Names() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}

	status := 0
	eval := func(line string) {
		if err := s.eval(line); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			status = 1
		}
	}
	if calls := fs.Args(); len(calls) > 0 {
		for _, call := range calls {
			eval(call)
		}
	} else {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, ";") {
				continue
			}
			eval(line)
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			status = 1
		}
	}

	if *stats {
		s.printStats(stdout)
	}
	return status
}

func loadOptions(dir string) (*options.Options, error) {
	var opts *options.Options
	var err error
	if dir != "" {
		opts, err = options.Load(dir)
	} else {
		opts, err = options.FindAndLoad(".")
	}
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = options.Default()
	}
	return opts, nil
}

// parseCall splits "name(arg, ...)" into the function name and a new
// argument list.
func parseCall(line string) (string, vm.Value, error) {
	open := strings.IndexByte(line, '(')
	if open <= 0 || !strings.HasSuffix(line, ")") {
		return "", vm.Value{}, fmt.Errorf("expected name(args...), got %q", line)
	}
	name := strings.TrimSpace(line[:open])
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '_' && !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') && !('0' <= c && c <= '9') {
			return "", vm.Value{}, fmt.Errorf("bad function name %q", name)
		}
	}
	args, err := vm.ParseLiteralList(line[open+1 : len(line)-1])
	if err != nil {
		return "", vm.Value{}, err
	}
	return name, args, nil
}

func (s *session) eval(line string) error {
	name, args, err := parseCall(line)
	if err != nil {
		return err
	}
	pack, err := s.registry.Call(name, args, s.progr)
	if err != nil {
		return err
	}
	defer s.gc.SweepNow()

	switch pack.Kind {
	case builtins.KindError:
		fmt.Fprintf(s.out, "%s\n", pack.Error.Name())
		return nil
	case builtins.KindAbort:
		return fmt.Errorf("%s: task aborted: resource limit exceeded", name)
	}

	defer vm.Release(pack.Value)
	switch s.format {
	case "tostr":
		fmt.Fprintln(s.out, vm.ToStr(pack.Value))
	case "cbor":
		data, err := wire.MarshalValue(pack.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%x\n", data)
	default:
		fmt.Fprintln(s.out, vm.Unparse(pack.Value))
	}
	return nil
}

func (s *session) printStats(w io.Writer) {
	heap := vm.HeapStats()
	fmt.Fprintf(w, "heap: lists=%d strings=%d maps=%d anons=%d\n",
		heap.Lists, heap.Strings, heap.Maps, heap.Anons)
	if st := s.gc.LastStats(); st != nil {
		fmt.Fprintf(w, "gc: sweeps=%d last-reclaimed=%d last-roots=%d\n",
			s.gc.SweepCount(), st.Reclaimed, st.Roots)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(pattern.NewCollector(s.registry.Cache(), "moo"))
	families, err := reg.Gather()
	if err != nil {
		fmt.Fprintf(w, "metrics: %v\n", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var v float64
			if c := m.GetCounter(); c != nil {
				v = c.GetValue()
			} else if g := m.GetGauge(); g != nil {
				v = g.GetValue()
			}
			fmt.Fprintf(w, "%s %g\n", mf.GetName(), v)
		}
	}
}
