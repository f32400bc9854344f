package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	sinkQueueSize     = 1024
	sinkBufferSize    = 32 * 1024
	sinkFlushInterval = 2 * time.Second
)

// FileSink appends log entries to a file from a single background
// goroutine. When the queue is full the entry is shed; a log line is
// never worth blocking a request on disk io.
type FileSink struct {
	queue chan []byte
	done  chan struct{}
	wg    sync.WaitGroup
	out   *bufio.Writer
	file  *os.File
}

func NewFileSink(path string) (*FileSink, error) {
	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	s := &FileSink{
		queue: make(chan []byte, sinkQueueSize),
		done:  make(chan struct{}),
		out:   bufio.NewWriterSize(file, sinkBufferSize),
		file:  file,
	}
	s.wg.Add(1)
	go s.drain()

	return s, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	entry := append([]byte(nil), p...)
	select {
	case s.queue <- entry:
	default:
	}
	return len(p), nil
}

func (s *FileSink) drain() {
	defer s.wg.Done()
	flush := time.NewTicker(sinkFlushInterval)
	defer flush.Stop()

	for {
		select {
		case entry := <-s.queue:
			if _, err := s.out.Write(entry); err != nil {
				fmt.Fprintln(os.Stderr, "log file write failed:", err)
			}
		case <-flush.C:
			_ = s.out.Flush()
		case <-s.done:
			for {
				select {
				case entry := <-s.queue:
					_, _ = s.out.Write(entry)
				default:
					_ = s.out.Flush()
					return
				}
			}
		}
	}
}

// Close drains whatever is still queued, flushes, and closes the file.
func (s *FileSink) Close() {
	close(s.done)
	s.wg.Wait()
	_ = s.file.Close()
}
