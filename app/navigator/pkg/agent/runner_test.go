package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/session"
)

// chunkModel streams a fixed sequence of content chunks, or fails n times
// before succeeding.
type chunkModel struct {
	mu       sync.Mutex
	chunks   []string
	failures int
	err      error
	calls    int
}

var _ model.BaseChatModel = (*chunkModel)(nil)

func (m *chunkModel) Generate(ctx context.Context, messages []*einoschema.Message, opts ...model.Option) (*einoschema.Message, error) {
	return nil, fmt.Errorf("not used")
}

func (m *chunkModel) Stream(ctx context.Context, messages []*einoschema.Message, opts ...model.Option) (*einoschema.StreamReader[*einoschema.Message], error) {
	m.mu.Lock()
	m.calls++
	fail := m.failures > 0
	if fail {
		m.failures--
	}
	m.mu.Unlock()

	if fail {
		return nil, m.err
	}
	msgs := make([]*einoschema.Message, 0, len(m.chunks))
	for _, c := range m.chunks {
		msgs = append(msgs, &einoschema.Message{Role: einoschema.Assistant, Content: c})
	}
	return einoschema.StreamReaderFromArray(msgs), nil
}

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	svc := session.NewInMemoryService()
	sess, err := svc.Create("test", "u", "s1")
	require.NoError(t, err)
	return sess
}

func TestInvokeConcatenatesChunks(t *testing.T) {
	m := &chunkModel{chunks: []string{`{"ans`, `wer": `, `42}`}}
	r := NewRunner(m, newTestSession(t))

	raw, err := r.Invoke(context.Background(), NewProfiler(), "질문")
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer": 42}`, string(raw))
}

func TestInvokeStripsCodeFences(t *testing.T) {
	m := &chunkModel{chunks: []string{"```json\n{\"ok\": true}\n```"}}
	r := NewRunner(m, newTestSession(t))

	raw, err := r.Invoke(context.Background(), NewProfiler(), "질문")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(raw))
}

func TestInvokeRecordsBothTurns(t *testing.T) {
	m := &chunkModel{chunks: []string{`{"ok": true}`}}
	sess := newTestSession(t)
	r := NewRunner(m, sess)

	_, err := r.Invoke(context.Background(), NewProfiler(), "질문입니다")
	require.NoError(t, err)

	history := sess.History()
	require.Len(t, history, 2)
	assert.Equal(t, einoschema.User, history[0].Role)
	assert.Equal(t, "질문입니다", history[0].Content)
	assert.Equal(t, einoschema.Assistant, history[1].Role)
}

func TestInvokeEmptyStream(t *testing.T) {
	m := &chunkModel{chunks: nil}
	r := NewRunner(m, newTestSession(t))

	_, err := r.Invoke(context.Background(), NewProfiler(), "질문")
	var nfe *NoFinalResponseError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "profiler_agent", nfe.Agent)
}

func TestInvokeMalformedOutput(t *testing.T) {
	m := &chunkModel{chunks: []string{"분석 결과를 말씀드리자면"}}
	sess := newTestSession(t)
	r := NewRunner(m, sess)

	_, err := r.Invoke(context.Background(), NewProfiler(), "질문")
	var moe *MalformedOutputError
	require.ErrorAs(t, err, &moe)
	assert.Contains(t, moe.Text, "분석 결과")
	// The failed assistant turn is not recorded.
	assert.Equal(t, 1, sess.Len())
}

func TestInvokeRetriesRateLimit(t *testing.T) {
	m := &chunkModel{
		chunks:   []string{`{"ok": true}`},
		failures: 2,
		err:      fmt.Errorf("request failed: 429 Too Many Requests"),
	}
	r := NewRunner(m, newTestSession(t), WithRetry(3))
	r.baseDelay = time.Millisecond

	raw, err := r.Invoke(context.Background(), NewProfiler(), "질문")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(raw))
	assert.Equal(t, 3, m.calls)
}

func TestInvokeDoesNotRetryOtherErrors(t *testing.T) {
	m := &chunkModel{
		chunks:   []string{`{"ok": true}`},
		failures: 1,
		err:      fmt.Errorf("connection refused"),
	}
	r := NewRunner(m, newTestSession(t), WithRetry(3))
	r.baseDelay = time.Millisecond

	_, err := r.Invoke(context.Background(), NewProfiler(), "질문")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, m.calls)
}

func TestRunEmitsIntermediateThenTerminal(t *testing.T) {
	m := &chunkModel{chunks: []string{"가", "나"}}
	r := NewRunner(m, newTestSession(t))

	stream, err := r.Run(context.Background(), NewMarketAnalyst(), "질문")
	require.NoError(t, err)
	defer stream.Close()

	var events []*Event
	for {
		ev, err := stream.Next()
		if err != nil {
			break
		}
		events = append(events, ev)
	}
	require.Len(t, events, 3)
	assert.False(t, events[0].Final)
	assert.False(t, events[1].Final)
	assert.True(t, events[2].Final)
	assert.Equal(t, "가나", events[2].Content)
	assert.Equal(t, "market_analyst_agent", events[2].Agent)
}

func TestBuildQuery(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("raw json passes through untouched", func(t *testing.T) {
		raw := json.RawMessage(`{"a":  1}`)
		q, err := BuildQuery(raw)
		require.NoError(t, err)
		assert.Equal(t, `{"a":  1}`, q)
	})

	t.Run("typed values are indented", func(t *testing.T) {
		q, err := BuildQuery(payload{Name: "김밥"})
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"name\": \"김밥\"\n}", q)
	})

	t.Run("parts join with blank lines", func(t *testing.T) {
		q, err := BuildQuery(json.RawMessage(`{}`), "문자열", payload{Name: "x"})
		require.NoError(t, err)
		assert.Equal(t, "{}\n\n문자열\n\n{\n  \"name\": \"x\"\n}", q)
	})
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		`{"a":1}`:                 `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, stripFences(in))
	}
}
