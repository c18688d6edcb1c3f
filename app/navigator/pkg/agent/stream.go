package agent

import (
	"io"

	"github.com/cloudwego/eino/schema"
)

// Event is one fragment of an agent's response stream. At most one event per
// stream is terminal; it carries the agent's complete answer.
type Event struct {
	Agent   string
	Content string
	Final   bool
}

// EventStream is a lazy, finite, single-pass sequence of response fragments.
// Next returns io.EOF after the last event.
type EventStream interface {
	Next() (*Event, error)
	Close()
}

// modelEventStream adapts an eino message stream into events: every received
// chunk becomes an intermediate event, and exhaustion of the underlying stream
// yields one terminal event with the concatenated content.
type modelEventStream struct {
	agent  string
	reader *schema.StreamReader[*schema.Message]
	chunks []*schema.Message
	done   bool
}

func newModelEventStream(agentName string, reader *schema.StreamReader[*schema.Message]) *modelEventStream {
	return &modelEventStream{agent: agentName, reader: reader}
}

func (s *modelEventStream) Next() (*Event, error) {
	if s.done {
		return nil, io.EOF
	}

	msg, err := s.reader.Recv()
	if err == io.EOF {
		s.done = true
		if len(s.chunks) == 0 {
			return nil, io.EOF
		}
		full, cerr := schema.ConcatMessages(s.chunks)
		if cerr != nil {
			return nil, cerr
		}
		return &Event{Agent: s.agent, Content: full.Content, Final: true}, nil
	}
	if err != nil {
		return nil, err
	}

	s.chunks = append(s.chunks, msg)
	return &Event{Agent: s.agent, Content: msg.Content}, nil
}

func (s *modelEventStream) Close() {
	s.reader.Close()
}
