package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/session"
)

// Runner executes agents against one shared session. Every invocation is a
// single conversational turn; the session accumulates history as a side
// effect, so callers must not assume isolation between calls.
type Runner struct {
	cm          model.BaseChatModel
	sess        *session.Session
	limiter     *rate.Limiter
	log         *logrus.Logger
	callTimeout time.Duration
	maxRetries  int
	baseDelay   time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLimiter rate-limits outbound model calls.
func WithLimiter(l *rate.Limiter) Option {
	return func(r *Runner) { r.limiter = l }
}

// WithCallTimeout bounds each individual model call. Zero disables the bound
// and delegates deadlines entirely to the transport.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Runner) { r.callTimeout = d }
}

// WithRetry retries rate-limited transport failures up to max times with
// exponential backoff. Malformed output is never retried.
func WithRetry(max int) Option {
	return func(r *Runner) { r.maxRetries = max }
}

// WithLogger overrides the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// NewRunner binds a chat model to a session.
func NewRunner(cm model.BaseChatModel, sess *session.Session, opts ...Option) *Runner {
	r := &Runner{
		cm:        cm,
		sess:      sess,
		log:       logrus.StandardLogger(),
		baseDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Session returns the session shared by this runner's invocations.
func (r *Runner) Session() *session.Session { return r.sess }

// Run dispatches one turn and returns the lazy event stream of the response.
// The user turn is recorded in the session before the call goes out.
func (r *Runner) Run(ctx context.Context, ag *Agent, query string) (EventStream, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Agent: ag.Name, Err: err}
		}
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: ag.Instruction},
		{Role: schema.User, Content: query},
	}
	r.sess.Append(&schema.Message{Role: schema.User, Content: query})

	reader, err := r.cm.Stream(ctx, messages)
	if err != nil {
		return nil, &TransportError{Agent: ag.Name, Err: err}
	}
	return newModelEventStream(ag.Name, reader), nil
}

// Invoke runs one agent call end to end: dispatch, scan the event stream for
// the first terminal event with non-empty content, strip code fences, and
// parse the JSON answer. The assistant turn is appended to the session on
// success.
func (r *Runner) Invoke(ctx context.Context, ag *Agent, query string) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := r.baseDelay * time.Duration(1<<(attempt-1))
			r.log.Warnf("agent [%s] rate limited, retrying in %s (attempt %d/%d)", ag.Name, delay, attempt, r.maxRetries)
			select {
			case <-ctx.Done():
				return nil, &TransportError{Agent: ag.Name, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		raw, err := r.invokeOnce(ctx, ag, query)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !isRateLimited(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (r *Runner) invokeOnce(ctx context.Context, ag *Agent, query string) (json.RawMessage, error) {
	if r.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.callTimeout)
		defer cancel()
	}

	stream, err := r.Run(ctx, ag, query)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	final, err := extractFinalResponse(ag.Name, stream)
	if err != nil {
		return nil, err
	}

	clean := stripFences(final.Content)
	if !json.Valid([]byte(clean)) {
		return nil, &MalformedOutputError{
			Agent: ag.Name,
			Text:  clean,
			Err:   fmt.Errorf("terminal response is not a JSON document"),
		}
	}

	r.sess.Append(&schema.Message{Role: schema.Assistant, Content: final.Content})
	r.log.Debugf("agent [%s] answered with %d bytes", ag.Name, len(clean))
	return json.RawMessage(clean), nil
}

// extractFinalResponse pulls events until the first terminal event with
// content appears or the stream exhausts.
func extractFinalResponse(agentName string, stream EventStream) (*Event, error) {
	for {
		ev, err := stream.Next()
		if err == io.EOF {
			return nil, &NoFinalResponseError{Agent: agentName}
		}
		if err != nil {
			return nil, &TransportError{Agent: agentName, Err: err}
		}
		if ev.Final && strings.TrimSpace(ev.Content) != "" {
			return ev, nil
		}
	}
}

// stripFences removes the ```json markdown wrapper some models insist on.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

// BuildQuery serializes payload parts into the composite text message an
// agent receives. Raw JSON parts pass through untouched so upstream agent
// answers keep their exact shape; typed parts are marshaled with two-space
// indentation. Part order is part of the contract with each agent.
func BuildQuery(parts ...any) (string, error) {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		switch v := part.(type) {
		case json.RawMessage:
			segments = append(segments, string(v))
		case string:
			segments = append(segments, v)
		default:
			b, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return "", fmt.Errorf("marshal query part: %w", err)
			}
			segments = append(segments, string(b))
		}
	}
	return strings.Join(segments, "\n\n"), nil
}
