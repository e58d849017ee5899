package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/shared"
	"github.com/wippyai/shared/registry"
)

func main() {
	var (
		ops         = flag.Int("ops", 200, "Number of scripted lifecycle operations")
		seed        = flag.Int64("seed", 1, "Seed for the scripted workload")
		limit       = flag.Int("limit", 0, "Live entry limit for the registry (0 = unbounded)")
		verbose     = flag.Bool("v", false, "Log every lifecycle event")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*ops, *limit, *seed, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// stats tallies lifecycle events.
type stats struct {
	created   int
	retained  int
	released  int
	destroyed int
}

func (s *stats) OnHandleEvent(e registry.Event) {
	switch e.Type {
	case registry.EventCreated:
		s.created++
	case registry.EventRetained:
		s.retained++
	case registry.EventReleased:
		s.released++
	case registry.EventDestroyed:
		s.destroyed++
	}
}

func run(ops, limit int, seed int64, verbose bool) error {
	if verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer log.Sync()
		shared.SetLogger(log)
	}

	table := registry.NewTableWithLimit(limit)
	defer table.Close()

	st := &stats{}
	table.Subscribe(st)
	table.Subscribe(registry.NewLogObserver(shared.Logger()))

	// Scripted workload: each live handle owns some units of its
	// entry's share; create, retain and release at random, then give
	// every remaining unit back.
	rng := rand.New(rand.NewSource(seed))
	var live []registry.Handle

	for i := 0; i < ops; i++ {
		switch n := rng.Intn(10); {
		case n < 4 || len(live) == 0:
			h := table.Create(fmt.Sprintf("payload-%d", i))
			if h != 0 {
				live = append(live, h)
			}
		case n < 7:
			h := live[rng.Intn(len(live))]
			table.Retain(h)
			live = append(live, h)
		default:
			idx := rng.Intn(len(live))
			table.Release(live[idx])
			live = append(live[:idx], live[idx+1:]...)
		}
	}
	for _, h := range live {
		table.Release(h)
	}

	printSummary(os.Stdout, st, table.Len())
	return nil
}

var (
	sumTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sumLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	sumOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	sumBadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func printSummary(out *os.File, st *stats, surviving int) {
	styled := term.IsTerminal(int(out.Fd()))
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	fmt.Fprintln(out, render(sumTitleStyle, "sharedctl summary"))
	fmt.Fprintf(out, "%s %d\n", render(sumLabelStyle, "created:  "), st.created)
	fmt.Fprintf(out, "%s %d\n", render(sumLabelStyle, "retained: "), st.retained)
	fmt.Fprintf(out, "%s %d\n", render(sumLabelStyle, "released: "), st.released)
	fmt.Fprintf(out, "%s %d\n", render(sumLabelStyle, "destroyed:"), st.destroyed)

	if surviving == 0 && st.destroyed == st.created {
		fmt.Fprintln(out, render(sumOKStyle, "every entry torn down exactly once"))
	} else {
		fmt.Fprintf(out, "%s %d entries survived\n", render(sumBadStyle, "leak:"), surviving)
	}
}
