// Command synthfsctl drives the synthfs deterministic virtual file
// system and its breadcrumb/edit-suggest workers from the command
// line, in the style of the teacher repository's cmd/muscle: one
// flag.FlagSet per subcommand, a single dispatch switch, and a global
// "base"/"verbosity" pair of flags shared by every subcommand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/andreyvit/diff"
	"github.com/cortexfs/synthfs/internal/engine"
	"github.com/cortexfs/synthfs/internal/opengine"
	"github.com/cortexfs/synthfs/internal/rng"
	"github.com/cortexfs/synthfs/internal/vfs"
	"github.com/cortexfs/synthfs/internal/vfsconfig"
	"github.com/cortexfs/synthfs/internal/watch"
	"github.com/google/gops/agent"
	log "github.com/sirupsen/logrus"
)

var globalContext struct {
	seed      uint
	maxKids   uint
	maxDepth  uint
	latencyMs uint
	logLevel  string
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.UintVar(&globalContext.seed, "seed", vfsconfig.DefaultSeed, "deterministic generation `seed`, 0 selects a run-unique seed")
	fs.UintVar(&globalContext.maxKids, "max-children", vfsconfig.DefaultMaxChildrenPerDirectory, "planned child `count` ceiling per directory")
	fs.UintVar(&globalContext.maxDepth, "max-depth", vfsconfig.DefaultMaxDepth, "subdirectory `depth` ceiling, 0 for unlimited")
	fs.UintVar(&globalContext.latencyMs, "latency-ms", vfsconfig.DefaultLatencyMs, "simulated per-item operation latency in `ms`")
	var levels []string
	for _, l := range log.AllLevels {
		levels = append(levels, l.String())
	}
	fs.StringVar(&globalContext.logLevel, "verbosity", "warning", "sets the log `level`, among "+strings.Join(levels, ", "))
	return fs
}

func exitUsage(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	_, _ = fmt.Fprintf(os.Stderr, `Usage: %s COMMAND [ARGS]

Commands:

	ls PATH            enumerate a directory's generated children
	stat PATH           print get_item_properties JSON for PATH
	cat PATH            read a file's generated content to stdout
	copy SRC DST        bulk-copy SRC to DST
	move SRC DST        bulk-move SRC to DST
	rename PATH NAME    rename PATH's final component to NAME
	delete PATH         bulk-delete PATH
	watch PATH DURATION watch PATH for changes for DURATION
	driveinfo PATH      print get_drive_info JSON for PATH's root
	menu                print get_menu navigation items
	capabilities        print the fixed get_capabilities document
	config              print the current configuration document
	diff OLD NEW        line-diff two read_directory text dumps
	bench PATH          compare per-node vs whole-walk generation timing
	serve               start a gops-instrumented long-running demo host
`, os.Args[0])
	os.Exit(2)
}

func newConfig() vfsconfig.C {
	cfg := vfsconfig.Default()
	cfg.Seed = uint32(globalContext.seed)
	cfg.MaxChildrenPerDirectory = int(globalContext.maxKids)
	cfg.MaxDepth = int(globalContext.maxDepth)
	cfg.LatencyMs = int(globalContext.latencyMs)
	if err := cfg.Normalize(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}

func monotonicTick() uint64 {
	return uint64(time.Now().UnixNano())
}

func main() {
	if len(os.Args) < 2 {
		exitUsage("command name required")
	}
	cmd := os.Args[1]

	fs := newFlagSet(cmd)
	_ = fs.Parse(os.Args[2:])
	args := fs.Args()

	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.JSONFormatter{})
	level, err := log.ParseLevel(globalContext.logLevel)
	if err != nil {
		log.Fatalf("could not parse log level %q: %v", globalContext.logLevel, err)
	}
	log.SetLevel(level)

	switch cmd {
	case "ls":
		requireArgs(cmd, args, 1)
		runLs(args[0])
	case "stat":
		requireArgs(cmd, args, 1)
		runStat(args[0])
	case "cat":
		requireArgs(cmd, args, 1)
		runCat(args[0])
	case "copy":
		requireArgs(cmd, args, 2)
		runBulk(opengine.OpCopy, args[0], args[1])
	case "move":
		requireArgs(cmd, args, 2)
		runBulk(opengine.OpMove, args[0], args[1])
	case "rename":
		requireArgs(cmd, args, 2)
		runBulk(opengine.OpRename, args[0], args[1])
	case "delete":
		requireArgs(cmd, args, 1)
		runBulk(opengine.OpDelete, args[0], "")
	case "watch":
		requireArgs(cmd, args, 2)
		runWatch(args[0], args[1])
	case "driveinfo":
		requireArgs(cmd, args, 1)
		runDriveInfo(args[0])
	case "menu":
		requireArgs(cmd, args, 0)
		runMenu()
	case "capabilities":
		requireArgs(cmd, args, 0)
		runCapabilities()
	case "config":
		requireArgs(cmd, args, 0)
		runConfig()
	case "diff":
		requireArgs(cmd, args, 2)
		runDiff(args[0], args[1])
	case "bench":
		requireArgs(cmd, args, 1)
		runBench(args[0])
	case "serve":
		requireArgs(cmd, args, 0)
		runServe()
	default:
		exitUsage(fmt.Sprintf("%q: command not recognized", cmd))
	}
}

func requireArgs(cmd string, args []string, n int) {
	if len(args) != n {
		exitUsage(fmt.Sprintf("%s: expected %d argument(s), got %d", cmd, n, len(args)))
	}
}

func newEngine() *engine.Engine {
	return engine.New("synthfsctl", newConfig(), monotonicTick())
}

func runLs(path string) {
	e := newEngine()
	names, err := e.VFS().ListChildNames(path)
	if err != nil {
		log.Fatalf("ls %s: %v", path, err)
	}
	for _, n := range names {
		kind := "file"
		if n.IsDir {
			kind = "dir"
		}
		fmt.Printf("%s\t%s\n", kind, n.Name)
	}
}

func runStat(path string) {
	e := newEngine()
	buf, err := e.GetItemProperties(path)
	if err != nil {
		log.Fatalf("stat %s: %v", path, err)
	}
	fmt.Println(string(buf))
}

func runCat(path string) {
	e := newEngine()
	r, err := e.VFS().CreateReader(path)
	if err != nil {
		log.Fatalf("cat %s: %v", path, err)
	}
	// vfs.Reader reports end of stream as (0, nil), not io.EOF (the
	// read(buffer, bytes_to_read) contract treats EOF as a successful
	// 0-byte result), so io.Copy's error-driven termination does not
	// apply here; stop once a read comes back empty instead.
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if err != nil {
			log.Fatalf("cat %s: %v", path, err)
		}
		if n == 0 {
			break
		}
		if _, err := os.Stdout.Write(buf[:n]); err != nil {
			log.Fatalf("cat %s: %v", path, err)
		}
	}
}

func runBulk(kind opengine.OpKind, src, dst string) {
	e := newEngine()
	items := []opengine.WorkItem{{Kind: kind, Source: src, Dest: dst}}
	result := e.Operations().RunBulk(context.Background(), items, vfs.OpContinueOnError, opengine.Callback{
		OnComplete: func(r opengine.ItemResult) {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "item %d failed: %v\n", r.Index, r.Err)
			} else {
				fmt.Printf("item %d ok: %s -> %s\n", r.Index, r.Source, r.Dest)
			}
		},
	})
	if result.Partial {
		os.Exit(1)
	}
}

func runWatch(path, durationText string) {
	d, err := time.ParseDuration(durationText)
	if err != nil {
		log.Fatalf("watch: invalid duration %q: %v", durationText, err)
	}
	e := newEngine()
	err = e.VFS().WatchDirectory(path, func(watchedPath string, changes []watch.Change) {
		for _, c := range changes {
			fmt.Printf("%s: %s (%d)\n", watchedPath, c.RelativePath, c.Action)
		}
	}, nil)
	if err != nil {
		log.Fatalf("watch %s: %v", path, err)
	}
	time.Sleep(d)
	_ = e.VFS().UnwatchDirectory(path)
}

func runDriveInfo(path string) {
	e := newEngine()
	info := e.GetDriveInfo(path)
	fmt.Printf("display=%s fs=%s total=%d free=%d used=%d\n",
		info.DisplayName, info.FileSystem, info.TotalBytes, info.FreeBytes, info.UsedBytes)
}

func runMenu() {
	e := newEngine()
	for _, item := range e.GetMenuItems() {
		fmt.Printf("%d\t%s\t%s\n", item.CommandID, item.Label, item.Path)
	}
}

func runCapabilities() {
	fmt.Println(string(newEngine().GetCapabilities()))
}

func runConfig() {
	fmt.Println(string(newEngine().GetConfig()))
}

func runDiff(oldPath, newPath string) {
	oldText, err := os.ReadFile(oldPath)
	if err != nil {
		log.Fatalf("diff: %v", err)
	}
	newText, err := os.ReadFile(newPath)
	if err != nil {
		log.Fatalf("diff: %v", err)
	}
	for _, line := range diff.LineDiffAsLines(string(oldText), string(newText)) {
		fmt.Println(line)
	}
}

// runBench compares the per-node Mersenne-Twister generation strategy
// (what the generator actually uses) against the supplemental
// whole-walk single-stream strategy (rng.NewWalkSequence), timing how
// long each takes to enumerate the same directory's immediate
// children. Both are deterministic; neither affects the other.
func runBench(path string) {
	e := newEngine()
	start := time.Now()
	names, err := e.VFS().ListChildNames(path)
	if err != nil {
		log.Fatalf("bench %s: %v", path, err)
	}
	perNodeElapsed := time.Since(start)

	seq := rng.NewWalkSequence(e.Config().EffectiveSeed(monotonicTick()))
	start = time.Now()
	for range names {
		seq.Next()
		seq.VisitNode()
	}
	walkElapsed := time.Since(start)

	fmt.Printf("children=%d per-node-generation=%s whole-walk-draws=%s (n=%s)\n",
		len(names), perNodeElapsed, walkElapsed, strconv.FormatUint(seq.NodesVisited(), 10))
}

// runServe starts a long-running demo host: an Engine with a watch on
// its root, a gops diagnostic agent for live inspection, and a signal
// handler that shuts down cleanly on SIGHUP/SIGINT/SIGTERM.
func runServe() {
	if err := agent.Listen(agent.Options{}); err != nil {
		log.Printf("could not start gops agent: %v", err)
	}
	defer agent.Close()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	e := newEngine()
	err := e.VFS().WatchDirectory(`C:\`, func(watchedPath string, changes []watch.Change) {
		log.WithField("path", watchedPath).Infof("%d change(s)", len(changes))
	}, nil)
	if err != nil {
		log.Fatalf("could not watch root: %v", err)
	}

	log.Print("serving; awaiting a signal to exit")
	sig := <-sigc
	log.Printf("got signal %q, exiting", sig)
}
