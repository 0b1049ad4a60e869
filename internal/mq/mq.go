package mq

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ErrQueueFull is returned by a non-blocking send when the queue holds
// QueueCapacity records. The caller drops the message.
var ErrQueueFull = errors.New("summary queue full")

// ErrNoMessage is returned by a non-blocking receive on an empty queue.
var ErrNoMessage = errors.New("summary queue empty")

// mqAttr mirrors the kernel struct mq_attr: four longs plus reserved
// space.
type mqAttr struct {
	Flags   int64
	Maxmsg  int64
	Msgsize int64
	Curmsgs int64
	_       [4]int64
}

// kernelName strips the leading slash: the mq_* syscalls take the queue
// name without it (the libc wrappers do the same).
func kernelName(name string) (*byte, error) {
	return unix.BytePtrFromString(strings.TrimPrefix(name, "/"))
}

func mqOpen(name string, oflag int, mode uint32, attr *mqAttr) (int, error) {
	p, err := kernelName(name)
	if err != nil {
		return -1, err
	}
	fd, _, errno := unix.Syscall6(unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(p)), uintptr(oflag), uintptr(mode),
		uintptr(unsafe.Pointer(attr)), 0, 0)
	if errno != 0 {
		return -1, errno
	}
	return int(fd), nil
}

// Unlink removes the named queue. Called as an explicit startup step so
// the monitor never inherits a stale queue with a mismatched record
// size. A queue that does not exist is not an error.
func Unlink() error {
	p, err := kernelName(QueueName)
	if err != nil {
		return err
	}
	_, _, errno := unix.Syscall(unix.SYS_MQ_UNLINK, uintptr(unsafe.Pointer(p)), 0, 0)
	if errno != 0 && errno != unix.ENOENT {
		return fmt.Errorf("mq_unlink %s: %w", QueueName, errno)
	}
	return nil
}

// OpenProducer creates the queue if needed and returns a non-blocking
// producer handle. Mode 0644 lets the dashboard process open it
// read-only.
func OpenProducer() (*Producer, error) {
	attr := &mqAttr{Maxmsg: QueueCapacity, Msgsize: MessageSize}
	fd, err := mqOpen(QueueName, unix.O_RDWR|unix.O_CREAT|unix.O_NONBLOCK, 0o644, attr)
	if err != nil {
		return nil, fmt.Errorf("mq_open %s: %w", QueueName, err)
	}
	return &Producer{fd: fd}, nil
}

type Producer struct {
	fd int
}

// Send enqueues one record without blocking. ErrQueueFull means the
// consumer is not keeping up; the record is dropped by the caller.
func (p *Producer) Send(msg SummaryMessage) error {
	buf := msg.Encode()
	_, _, errno := unix.Syscall6(unix.SYS_MQ_TIMEDSEND,
		uintptr(p.fd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)), 0, 0, 0)
	switch errno {
	case 0:
		return nil
	case unix.EAGAIN:
		return ErrQueueFull
	default:
		return fmt.Errorf("mq_send: %w", errno)
	}
}

func (p *Producer) Close() error {
	return unix.Close(p.fd)
}

// OpenConsumer opens the queue read-only and non-blocking. It fails if
// the producer has not created the queue yet.
func OpenConsumer() (*Consumer, error) {
	fd, err := mqOpen(QueueName, unix.O_RDONLY|unix.O_NONBLOCK, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("mq_open %s: %w", QueueName, err)
	}
	return &Consumer{fd: fd}, nil
}

// OpenConsumerRetry keeps trying to open the queue, once per interval,
// until it succeeds, attempts are exhausted, or stop is closed.
func OpenConsumerRetry(attempts int, interval time.Duration, stop <-chan struct{}) (*Consumer, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		c, err := OpenConsumer()
		if err == nil {
			return c, nil
		}
		lastErr = err
		select {
		case <-stop:
			return nil, lastErr
		case <-time.After(interval):
		}
	}
	return nil, fmt.Errorf("queue not available after %d attempts: %w", attempts, lastErr)
}

type Consumer struct {
	fd int
}

// Receive dequeues one record without blocking. ErrNoMessage means the
// queue is currently empty.
func (c *Consumer) Receive() (SummaryMessage, error) {
	buf := make([]byte, MessageSize)
	n, _, errno := unix.Syscall6(unix.SYS_MQ_TIMEDRECEIVE,
		uintptr(c.fd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)), 0, 0, 0)
	switch errno {
	case 0:
	case unix.EAGAIN:
		return SummaryMessage{}, ErrNoMessage
	default:
		return SummaryMessage{}, fmt.Errorf("mq_receive: %w", errno)
	}
	if int(n) < MessageSize {
		return SummaryMessage{}, fmt.Errorf("short mq record: %d bytes", n)
	}
	return DecodeSummaryMessage(buf), nil
}

func (c *Consumer) Close() error {
	return unix.Close(c.fd)
}
