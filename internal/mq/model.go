package mq

import (
	"encoding/binary"
	"math"
)

const (
	// QueueName is the well-known identity of the summary channel,
	// shared with the dashboard process.
	QueueName = "/container_max_metric_mq"

	// QueueCapacity is the fixed number of records the queue holds.
	QueueCapacity = 100

	// IdSize is the fixed width of the container name field. Names are
	// null-padded; a name longer than IdSize-1 bytes is truncated.
	IdSize = 100

	// MessageSize is the packed wire size of one SummaryMessage: three
	// little-or-big host-native float64 fields followed by the id, with
	// no padding between fields.
	MessageSize = 8 + 8 + 8 + IdSize
)

// SummaryMessage carries the per-field maxima over one batch. The field
// order is part of the wire contract with the dashboard reader.
type SummaryMessage struct {
	MaxCpuPct float64
	MaxMemPct float64
	MaxPidPct float64
	Id        [IdSize]byte
}

// NewSummaryMessage builds a message for one container batch. The name
// is copied into the fixed id field, truncated to IdSize-1 bytes so the
// field stays null-terminated when it fits.
func NewSummaryMessage(name string, maxCpu, maxMem, maxPid float64) SummaryMessage {
	msg := SummaryMessage{MaxCpuPct: maxCpu, MaxMemPct: maxMem, MaxPidPct: maxPid}
	n := len(name)
	if n > IdSize-1 {
		n = IdSize - 1
	}
	copy(msg.Id[:], name[:n])
	return msg
}

// Name returns the id field up to the first null byte.
func (m *SummaryMessage) Name() string {
	for i, b := range m.Id {
		if b == 0 {
			return string(m.Id[:i])
		}
	}
	return string(m.Id[:])
}

// Encode packs the message into its exact wire layout. Byte order is
// host native; producer and consumer are co-resident.
func (m *SummaryMessage) Encode() [MessageSize]byte {
	var buf [MessageSize]byte
	binary.NativeEndian.PutUint64(buf[0:8], math.Float64bits(m.MaxCpuPct))
	binary.NativeEndian.PutUint64(buf[8:16], math.Float64bits(m.MaxMemPct))
	binary.NativeEndian.PutUint64(buf[16:24], math.Float64bits(m.MaxPidPct))
	copy(buf[24:], m.Id[:])
	return buf
}

// DecodeSummaryMessage unpacks a wire record produced by Encode.
func DecodeSummaryMessage(buf []byte) SummaryMessage {
	var msg SummaryMessage
	if len(buf) < MessageSize {
		return msg
	}
	msg.MaxCpuPct = math.Float64frombits(binary.NativeEndian.Uint64(buf[0:8]))
	msg.MaxMemPct = math.Float64frombits(binary.NativeEndian.Uint64(buf[8:16]))
	msg.MaxPidPct = math.Float64frombits(binary.NativeEndian.Uint64(buf[16:24]))
	copy(msg.Id[:], buf[24:MessageSize])
	return msg
}
