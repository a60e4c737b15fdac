package openai

import (
	"bufio"
	"io"
	"strings"
)

// sseEvent is a single server-sent event.
type sseEvent struct {
	Type string
	Data string
}

// sseScanner reads server-sent events. Events are separated by blank
// lines; multiple data lines are joined with newlines. Comment lines and
// unknown fields are ignored.
type sseScanner struct {
	reader  *bufio.Reader
	current sseEvent
	err     error
}

func newSSEScanner(reader io.Reader) *sseScanner {
	return &sseScanner{
		reader: bufio.NewReaderSize(reader, 64*1024),
	}
}

// Next advances to the next event. It returns false at end of input or on error.
func (s *sseScanner) Next() bool {
	s.current = sseEvent{}
	if s.err != nil {
		return false
	}

	var dataLines []string
	var eventType string
	hasData := false

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && line == "" {
			s.err = err
			if err == io.EOF && hasData {
				s.current = sseEvent{Type: eventType, Data: strings.Join(dataLines, "\n")}
				return true
			}
			return false
		}

		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if hasData {
				s.current = sseEvent{Type: eventType, Data: strings.Join(dataLines, "\n")}
				return true
			}
			eventType = ""
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "data":
			dataLines = append(dataLines, value)
			hasData = true
		case "event":
			eventType = value
		}
	}
}

// Event returns the event parsed by the last successful Next.
func (s *sseScanner) Event() sseEvent {
	return s.current
}

// Err returns the read error that stopped the scanner, or nil on clean EOF.
func (s *sseScanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
