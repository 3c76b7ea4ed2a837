// Command handlebench drives synthetic acquire/release/dereference workloads
// against handle tables and reports throughput.
//
// Profiling:
//
//	go build ./cmd/handlebench
//	./handlebench -scenario churn.yaml -profile cpu
//	go tool pprof -http=":8000" ./handlebench cpu.pprof
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/handletable"
)

type object struct {
	id      int
	payload [4]uint64
}

type workerResult struct {
	hits     int
	misses   int
	stats    handletable.Stats
	finalLen int
}

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "path to a YAML scenario file (default: built-in churn workload)")
		profileMode  = flag.String("profile", "off", "profiling mode: cpu, mem or off")
		quiet        = flag.Bool("quiet", false, "suppress the progress bar")
	)
	flag.Parse()

	scenario := DefaultScenario()
	if *scenarioPath != "" {
		var err error
		scenario, err = LoadScenario(*scenarioPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "off":
	default:
		log.Fatalf("unknown profile mode %q", *profileMode)
	}

	fmt.Printf("scenario %s: %d workers x %d iterations, %d objects, churn %.2f, %d reads/step\n",
		scenario.Name, scenario.Workers, scenario.Iterations, scenario.Objects, scenario.Churn, scenario.Reads)

	var bar *progressbar.ProgressBar
	if !*quiet {
		bar = progressbar.Default(int64(scenario.Workers * scenario.Iterations))
	}

	results := make([]workerResult, scenario.Workers)
	start := time.Now()

	var g errgroup.Group
	for w := 0; w < scenario.Workers; w++ {
		g.Go(func() error {
			results[w] = runWorker(scenario, scenario.Seed+int64(w), bar)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	elapsed := time.Since(start)

	if bar != nil {
		_ = bar.Finish()
	}

	report(os.Stdout, scenario, results, elapsed)
}

// runWorker runs the scenario against one table. Each worker owns its table
// outright: the table itself is single-threaded by contract.
func runWorker(s Scenario, seed int64, bar *progressbar.ProgressBar) workerResult {
	rng := rand.New(rand.NewSource(seed))
	table := handletable.New32[object](handletable.WithGrowthIncrement(s.Slots))

	objects := make([]object, s.Objects)
	live := make([]handletable.Handle32, 0, s.Objects)
	for i := range objects {
		objects[i].id = i
		live = append(live, table.Acquire(&objects[i]))
	}

	// One stale handle per worker so the read mix exercises the miss path.
	stale := live[0]
	table.Release(stale)
	live[0] = table.Acquire(&objects[0])

	res := workerResult{}
	const barBatch = 8192

	for i := 0; i < s.Iterations; i++ {
		for r := 0; r < s.Reads; r++ {
			var h handletable.Handle32
			if rng.Intn(16) == 0 {
				h = stale
			} else {
				h = live[rng.Intn(len(live))]
			}
			if table.Get(h) != nil {
				res.hits++
			} else {
				res.misses++
			}
		}

		if rng.Float64() < s.Churn {
			j := rng.Intn(len(live))
			table.Release(live[j])
			live[j] = table.Acquire(&objects[rng.Intn(len(objects))])
		}

		if bar != nil && i%barBatch == barBatch-1 {
			_ = bar.Add(barBatch)
		}
	}

	res.stats = table.Stats()
	res.finalLen = table.Len()
	return res
}

func report(w *os.File, s Scenario, results []workerResult, elapsed time.Duration) {
	var hits, misses int
	var acquires, releases, grows uint64
	for _, r := range results {
		hits += r.hits
		misses += r.misses
		acquires += r.stats.Acquires
		releases += r.stats.Releases
		grows += r.stats.Grows
	}

	steps := s.Workers * s.Iterations
	reads := hits + misses

	fmt.Fprintf(w, "elapsed:   %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "steps:     %d (%.0f/s)\n", steps, float64(steps)/elapsed.Seconds())
	fmt.Fprintf(w, "reads:     %d hits, %d misses (%.0f/s)\n", hits, misses, float64(reads)/elapsed.Seconds())
	fmt.Fprintf(w, "acquires:  %d\n", acquires)
	fmt.Fprintf(w, "releases:  %d\n", releases)
	fmt.Fprintf(w, "grows:     %d\n", grows)
	for i, r := range results {
		fmt.Fprintf(w, "worker %d:  %d slots, %d live\n", i, r.finalLen, r.stats.Occupied)
	}
}
