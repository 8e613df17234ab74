package eventlog

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sync"
)

// Log is an append-only event log of verdicts.
type Log struct {
	file        *os.File
	writer      *bufio.Writer
	encoder     *gob.Encoder
	mu          sync.Mutex
	sequenceNum uint64
	path        string
}

// record is the on-disk format for a single entry.
type record struct {
	SequenceNum uint64
	Data        interface{}
	Checksum    uint32
}

// Open opens or creates the log at path, recovering the last sequence
// number by scanning the existing file.
func Open(path string) (*Log, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}

	writer := bufio.NewWriter(file)
	l := &Log{
		file:    file,
		writer:  writer,
		encoder: gob.NewEncoder(writer),
		path:    path,
	}

	if err := l.recover(); err != nil {
		file.Close()
		return nil, fmt.Errorf("eventlog: recover %s: %w", path, err)
	}
	return l, nil
}

// Append writes a verdict event, assigning it the next sequence number.
// Returns the assigned sequence number.
func (l *Log) Append(event *VerdictEvent) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sequenceNum++
	event.SequenceNum = l.sequenceNum

	rec := record{
		SequenceNum: l.sequenceNum,
		Data:        event,
		Checksum:    crc32.ChecksumIEEE([]byte(fmt.Sprintf("%v", event))),
	}

	if err := l.encoder.Encode(rec); err != nil {
		return 0, fmt.Errorf("eventlog: encode: %w", err)
	}
	if err := l.writer.Flush(); err != nil {
		return 0, fmt.Errorf("eventlog: flush: %w", err)
	}
	return l.sequenceNum, nil
}

// Replay reads every recorded event in order and invokes handler for
// each, used to rebuild the verification history after the fact.
func (l *Log) Replay(handler func(seqNum uint64, event *VerdictEvent) error) error {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("eventlog: open for replay: %w", err)
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	var lastSeq uint64
	for {
		var rec record
		if err := decoder.Decode(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("eventlog: decode: %w", err)
		}
		if lastSeq > 0 && rec.SequenceNum != lastSeq+1 {
			return fmt.Errorf("eventlog: sequence gap: expected %d, got %d", lastSeq+1, rec.SequenceNum)
		}
		lastSeq = rec.SequenceNum

		expected := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%v", rec.Data)))
		if rec.Checksum != expected {
			return fmt.Errorf("eventlog: checksum mismatch at sequence %d", rec.SequenceNum)
		}

		verdict, ok := rec.Data.(*VerdictEvent)
		if !ok {
			return fmt.Errorf("eventlog: unexpected record type at sequence %d", rec.SequenceNum)
		}
		if err := handler(rec.SequenceNum, verdict); err != nil {
			return fmt.Errorf("eventlog: handler error at sequence %d: %w", rec.SequenceNum, err)
		}
	}
	return nil
}

// recover scans the existing log to find the last assigned sequence
// number, so Append continues numbering across restarts within one run.
func (l *Log) recover() error {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	for {
		var rec record
		if err := decoder.Decode(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		l.sequenceNum = rec.SequenceNum
	}
	return nil
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writer.Flush(); err != nil {
		return err
	}
	return l.file.Close()
}

func init() {
	gob.Register(&VerdictEvent{})
}
