package dashboard

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Komal-kalyanraman/container-monitor/internal/mq"
)

// SummaryReceiver is the read side of the summary channel. The POSIX
// queue consumer is the production implementation.
type SummaryReceiver interface {
	Receive() (mq.SummaryMessage, error)
}

func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{
		logger:  logger,
		entries: map[string]Row{},
	}
}

// Aggregator drains the summary channel into a per-container latest
// map. Containers that stop producing summaries age out of the map so
// destroyed containers disappear from the table.
type Aggregator struct {
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]Row
}

// Run polls the receiver until stop is closed. An empty queue is idled
// through, not treated as an error.
func (a *Aggregator) Run(receiver SummaryReceiver, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		msg, err := receiver.Receive()
		if err != nil {
			if err != mq.ErrNoMessage {
				a.logger.Warn("summary receive failed", "err", err)
			}
			select {
			case <-stop:
				return
			case <-time.After(time.Millisecond):
			}
			continue
		}
		a.Push(msg)
	}
}

func (a *Aggregator) Push(msg mq.SummaryMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	name := msg.Name()
	a.entries[name] = Row{
		Name:        name,
		MaxCpuPct:   msg.MaxCpuPct,
		MaxMemPct:   msg.MaxMemPct,
		MaxPidPct:   msg.MaxPidPct,
		UpdatedAtMs: time.Now().UnixMilli(),
	}
}

// Snapshot returns the live rows sorted by name, evicting entries older
// than staleAfter.
func (a *Aggregator) Snapshot(staleAfter time.Duration) []Row {
	nowMs := time.Now().UnixMilli()
	cutoff := nowMs - staleAfter.Milliseconds()

	a.mu.Lock()
	rows := make([]Row, 0, len(a.entries))
	for name, row := range a.entries {
		if row.UpdatedAtMs < cutoff {
			delete(a.entries, name)
			continue
		}
		rows = append(rows, row)
	}
	a.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}
