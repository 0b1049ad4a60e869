package pool

import (
	"github.com/Komal-kalyanraman/container-monitor/internal/mq"
	"github.com/Komal-kalyanraman/container-monitor/internal/store/metrics"
)

// PoolHandler is the surface the lifecycle coordinator drives. Admit
// and Evict are the only membership operations; both flush every
// worker's buffers first so no batch spans a membership change.
type PoolHandler interface {
	Start()
	Stop()
	Admit(name string)
	Evict(name string)
	FlushAll()
	Assignments() map[int][]string
	LiveSummaries() []LiveSummary
}

// LimitsSource resolves a container name to its declared limits. A
// cache miss means "not yet known" and fails admission.
type LimitsSource interface {
	GetContainer(name string) (metrics.ContainerLimits, bool)
}

// SummaryProducer is the send capability for the summary channel. The
// POSIX queue producer is the production implementation; tests inject
// fakes.
type SummaryProducer interface {
	Send(msg mq.SummaryMessage) error
	Close() error
}

// ProducerOpener opens a SummaryProducer. Workers call it lazily and
// keep sampling when it fails, retrying on the next pass.
type ProducerOpener func() (SummaryProducer, error)
