package viewer

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// BatchSink batches tracking-output lines before writing to reduce I/O
// overhead, the same size/timeout dual-trigger flush as the teacher's
// disruptor.EventBatcher, repurposed from batching gob-encoded trade
// events to batching formatted output lines.
type BatchSink struct {
	mu            sync.Mutex
	writer        *bufio.Writer
	file          *os.File
	lines         []string
	batchSize     int
	flushInterval time.Duration
	stopCh        chan struct{}
	doneCh        chan struct{}
}

// NewBatchSink opens path for append and starts the periodic flush
// goroutine. batchSize and flushInterval default to 1000 and 10ms, the
// teacher's defaults, if non-positive.
func NewBatchSink(path string, batchSize int, flushInterval time.Duration) (*BatchSink, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}
	if flushInterval <= 0 {
		flushInterval = 10 * time.Millisecond
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("viewer: open %s: %w", path, err)
	}

	b := &BatchSink{
		writer:        bufio.NewWriter(file),
		file:          file,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	go b.flushLoop()
	return b, nil
}

// QueueLine appends a line to the pending batch, flushing immediately if
// the batch has reached batchSize.
func (b *BatchSink) QueueLine(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
	if len(b.lines) >= b.batchSize {
		b.flushLocked()
	}
}

func (b *BatchSink) flushLoop() {
	defer close(b.doneCh)
	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.mu.Lock()
			b.flushLocked()
			b.mu.Unlock()
		case <-b.stopCh:
			b.mu.Lock()
			b.flushLocked()
			b.mu.Unlock()
			return
		}
	}
}

// flushLocked writes the pending batch and flushes the buffered writer to
// the file; it does not fsync. Caller must hold mu.
func (b *BatchSink) flushLocked() {
	if len(b.lines) == 0 {
		return
	}
	for _, line := range b.lines {
		if _, err := b.writer.WriteString(line); err != nil {
			log.Printf("viewer: write failed: %v", err)
		}
		if _, err := b.writer.WriteString("\n"); err != nil {
			log.Printf("viewer: write failed: %v", err)
		}
	}
	b.lines = b.lines[:0]
	if err := b.writer.Flush(); err != nil {
		log.Printf("viewer: flush failed: %v", err)
	}
}

// Close stops the background flush loop, writes any remaining lines, and
// closes the file.
func (b *BatchSink) Close() error {
	close(b.stopCh)
	<-b.doneCh
	return b.file.Close()
}
