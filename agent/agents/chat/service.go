package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	nodex "github.com/tanpawarit/zus-chat-assistant/agent/nodes/chat"
	sessionx "github.com/tanpawarit/zus-chat-assistant/agent/session"
	metricsx "github.com/tanpawarit/zus-chat-assistant/pkg/metrics"
)

const (
	DefaultTimeout = 20 * time.Second
	ErrorAnswer    = "I am very sorry, I encountered a critical error while trying to process your request. Please try again."
)

// Response is one answered chat turn. ToolUsed is empty and IntermediateSteps nil when
// nothing is reported.
type Response struct {
	Answer            string
	ToolUsed          string
	IntermediateSteps []string
}

type Option func(*Service)

func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

type Service struct {
	store      sessionx.Store
	planner    contractx.Planner
	normalizer contractx.Normalizer
	timeout    time.Duration

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(store sessionx.Store, planner contractx.Planner, normalizer contractx.Normalizer, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if planner == nil {
		return nil, fmt.Errorf("%w: planner is required", contractx.ErrUnavailable)
	}
	if normalizer == nil {
		return nil, errors.New("normalizer is required")
	}

	s := &Service{
		store:      store,
		planner:    planner,
		normalizer: normalizer,
		timeout:    DefaultTimeout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	graphRunner, err := s.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner
	return s, nil
}

// HandleMessage answers one chat turn. Only validation failures are returned as
// errors; every other failure, including the timeout, becomes the error-handler reply.
func (s *Service) HandleMessage(ctx context.Context, sessionID, message string) (Response, error) {
	if _, err := nodex.ValidateRequest(nodex.GraphInput{SessionID: sessionID, Message: message}); err != nil {
		return Response{}, err
	}

	started := s.now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		out nodex.GraphOutput
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := s.graphRunner.Invoke(ctx, nodex.GraphInput{SessionID: sessionID, Message: message})
		done <- result{out: out, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	resp := Response{
		Answer:            res.out.Answer,
		ToolUsed:          res.out.ToolUsed,
		IntermediateSteps: res.out.IntermediateSteps,
	}
	if res.err != nil {
		log.Error().Err(res.err).Str("session_id", sessionID).Msg("chat turn failed")
		resp = Response{Answer: ErrorAnswer, ToolUsed: contractx.ToolUsedErrorHandler}
	}

	metricsx.ChatTotal.WithLabelValues(metricsx.ToolUsedLabel(resp.ToolUsed)).Inc()
	metricsx.ChatDuration.Observe(s.now().Sub(started).Seconds())
	return resp, nil
}
