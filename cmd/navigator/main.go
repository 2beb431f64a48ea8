package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"navigator/pkg/adjacency"
	"navigator/pkg/config"
	"navigator/pkg/eventlog"
	"navigator/pkg/graph"
	"navigator/pkg/initial"
	"navigator/pkg/logx"
	"navigator/pkg/metrics"
	"navigator/pkg/persistence"
	"navigator/pkg/registry"
	"navigator/pkg/statememory"
	"navigator/pkg/statemodel"
)

// Version information - set by goreleaser via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		graphFile   = flag.String("graph", "", "Path to the YAML graph definition (required)")
		live        = flag.Bool("live", false, "Resolve by probing instead of a simulated draw")
		showing     = flag.String("showing", "", "Comma-separated state names the detector reports visible (live mode)")
		seed        = flag.Int64("seed", 0, "Seed for the simulated draw (0 = time-based)")
		dbPath      = flag.String("db", "navigator.db", "Run-history database path (empty disables)")
		eventsDir   = flag.String("events", "", "Directory for JSONL run events (empty disables)")
		metricsAddr = flag.String("metrics-addr", "", "Address to serve Prometheus metrics on (empty disables)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("navigator %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if *graphFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: navigator -graph <file> [-live] [-showing a,b] [-seed n]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	os.Exit(run(*graphFile, *live, *showing, *seed, *dbPath, *eventsDir, *metricsAddr))
}

// run contains the main application logic and returns an exit code. This
// allows defers to execute before os.Exit is called.
func run(graphFile string, live bool, showing string, seed int64, dbPath, eventsDir, metricsAddr string) int {
	logger := logx.NewLogger("navigator")

	def, err := config.Load(graphFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load graph: %v\n", err)
		return 1
	}
	sys := config.BuildSystem(def)

	jointTable := graph.NewJointTable(sys.Registry)
	jointTable.Rebuild(sys.Transitions)

	memory := statememory.NewMemory(sys.Registry)
	memory.AddObserver(jointTable)

	mode := "simulated"
	if live {
		mode = "live"
	}

	var recorder metrics.Recorder = metrics.Noop{}
	if metricsAddr != "" {
		recorder = metrics.NewPrometheusRecorder(nil)
		go serveMetrics(metricsAddr, logger)
	}
	memory.AddObserver(metrics.NewMemoryObserver(recorder, sys.Registry))

	var db *persistence.DB
	sessionID := ""
	if dbPath != "" {
		db, err = persistence.Open(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open run history: %v\n", err)
			return 1
		}
		defer db.Close()

		sessionID, err = db.BeginSession(def.Name, mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to begin session: %v\n", err)
			return 1
		}
		memory.AddObserver(db.NewSessionRecorder(sessionID))
	}

	var events *eventlog.Writer
	if eventsDir != "" {
		events, err = eventlog.NewWriter(eventsDir, sessionID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open event log: %v\n", err)
			return 1
		}
		defer events.Close()
		memory.AddObserver(events.NewMemoryObserver())
	}

	cfg := initial.Config{Simulated: !live, Metrics: recorder}
	if live {
		cfg.Detector = newNameDetector(sys.Registry, showing)
	}
	if seed != 0 {
		cfg.Rand = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	}

	selector := initial.NewSelector(sys.Registry, memory, cfg)
	sys.RegisterInitial(selector)
	logger.Info("resolving initial states for %q (%s, %d candidate sets, weight sum %d)",
		def.Name, mode, selector.CandidateCount(), selector.SumWeights())

	outcome := "activated"
	err = selector.Resolve()
	if err != nil {
		outcome = "empty"
	}

	if events != nil {
		if evErr := events.Write(eventlog.Event{Type: eventlog.TypeResolution, Detail: mode + "/" + outcome}); evErr != nil {
			logger.Warn("failed to write resolution event: %v", evErr)
		}
	}

	if db != nil {
		if recErr := db.RecordResolution(sessionID, mode, outcome, memory.Len()); recErr != nil {
			logger.Warn("failed to record resolution: %v", recErr)
		}
		if endErr := db.EndSession(sessionID); endErr != nil {
			logger.Warn("failed to end session: %v", endErr)
		}
	}

	if err != nil {
		if errors.Is(err, initial.ErrNoActiveStates) {
			fmt.Println("No active states found on screen.")
			return 1
		}
		fmt.Fprintf(os.Stderr, "Resolution failed: %v\n", err)
		return 1
	}

	fmt.Printf("Active states: %s\n", memory.ActiveStateNamesString())

	adj := adjacency.New(sys.Registry, sys.Transitions, memory)
	frontier := adj.AdjacentToActive()
	names := make([]string, 0, len(frontier))
	for _, id := range frontier.Sorted() {
		names = append(names, sys.Registry.StateName(id))
	}
	fmt.Printf("Reachable next: %s\n", strings.Join(names, ", "))

	return 0
}

func serveMetrics(addr string, logger *logx.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped: %v", err)
	}
}

// nameDetector is a scripted detector: a state probes as visible when its
// name is on the -showing list. It stands in for a real screen detector so
// live resolution can be exercised end to end.
type nameDetector struct {
	registry *registry.Store
	visible  map[string]bool
}

func newNameDetector(reg *registry.Store, showing string) *nameDetector {
	visible := make(map[string]bool)
	for _, name := range strings.Split(showing, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			visible[name] = true
		}
	}
	return &nameDetector{registry: reg, visible: visible}
}

func (d *nameDetector) Probe(id statemodel.StateID) bool {
	return d.visible[d.registry.StateName(id)]
}
