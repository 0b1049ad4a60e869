package dashboard

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

func NewRenderer(out io.Writer, warning, critical float64) *Renderer {
	return &Renderer{
		out:      out,
		warning:  warning,
		critical: critical,
	}
}

// Renderer draws the summary table. Cells at or above the warning
// threshold render yellow, at or above critical red. Thresholds are
// swappable at runtime by the config watcher.
type Renderer struct {
	out io.Writer

	mu       sync.Mutex
	warning  float64
	critical float64
}

func (r *Renderer) SetThresholds(warning, critical float64) {
	r.mu.Lock()
	r.warning = warning
	r.critical = critical
	r.mu.Unlock()
}

func (r *Renderer) Thresholds() (warning, critical float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warning, r.critical
}

var (
	warnColor = color.New(color.FgYellow)
	critColor = color.New(color.FgRed)
)

// colorize formats one percent cell, right-aligned to width.
func (r *Renderer) colorize(pct float64, width int) string {
	warning, critical := r.Thresholds()
	cell := fmt.Sprintf("%*.2f", width, pct)
	switch {
	case pct >= critical:
		return critColor.Sprint(cell)
	case pct >= warning:
		return warnColor.Sprint(cell)
	}
	return cell
}

// Render clears the terminal and draws the table.
func (r *Renderer) Render(rows []Row) {
	fmt.Fprint(r.out, "\033[2J\033[H")
	fmt.Fprintf(r.out, "%-30s  %12s  %12s  %12s\n",
		ColContainerName, ColMaxCpu, ColMaxMem, ColMaxPids)
	if len(rows) == 0 {
		fmt.Fprintln(r.out, "(no containers)")
		return
	}
	for _, row := range rows {
		fmt.Fprintf(r.out, "%-30s  %s  %s  %s\n",
			row.Name,
			r.colorize(row.MaxCpuPct, 12),
			r.colorize(row.MaxMemPct, 12),
			r.colorize(row.MaxPidPct, 12),
		)
	}
}

// RunLoop redraws on every refresh tick until stop is closed. Rows
// older than one refresh interval are dropped by the snapshot.
func (r *Renderer) RunLoop(agg *Aggregator, refresh time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(refresh)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.Render(agg.Snapshot(refresh))
		}
	}
}
