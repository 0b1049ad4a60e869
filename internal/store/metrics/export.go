package metrics

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// rowWriter writes one CSV row per call, after the header has been
// emitted. Both store backends feed their table dumps through it.
type rowWriter interface {
	writeContainerRow(name string, tsMs int64, cpu, mem, pids float64) error
	writeHostRow(tsMs int64, cpu, mem float64) error
}

type csvWriter struct {
	containers *bufio.Writer
	host       *bufio.Writer
}

func (w *csvWriter) writeContainerRow(name string, tsMs int64, cpu, mem, pids float64) error {
	_, err := fmt.Fprintf(w.containers, "%s,%d,%s,%s,%s\n",
		name, tsMs, formatPct(cpu), formatPct(mem), formatPct(pids))
	return err
}

func (w *csvWriter) writeHostRow(tsMs int64, cpu, mem float64) error {
	_, err := fmt.Fprintf(w.host, "%d,%s,%s\n", tsMs, formatPct(cpu), formatPct(mem))
	return err
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// exportCsv creates the two export files with their literal headers and
// streams each table dump through the supplied callbacks.
func exportCsv(dir string, containerRows, hostRows func(rowWriter) error) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	containerFile, err := os.Create(filepath.Join(dir, ContainerCsvName))
	if err != nil {
		return fmt.Errorf("create %s: %w", ContainerCsvName, err)
	}
	defer containerFile.Close()
	hostFile, err := os.Create(filepath.Join(dir, HostCsvName))
	if err != nil {
		return fmt.Errorf("create %s: %w", HostCsvName, err)
	}
	defer hostFile.Close()

	w := &csvWriter{
		containers: bufio.NewWriter(containerFile),
		host:       bufio.NewWriter(hostFile),
	}
	if _, err := w.containers.WriteString(ContainerCsvHeader); err != nil {
		return err
	}
	if _, err := w.host.WriteString(HostCsvHeader); err != nil {
		return err
	}
	if err := containerRows(w); err != nil {
		return fmt.Errorf("dump container_metrics: %w", err)
	}
	if err := hostRows(w); err != nil {
		return fmt.Errorf("dump host_usage: %w", err)
	}
	if err := w.containers.Flush(); err != nil {
		return err
	}
	return w.host.Flush()
}
