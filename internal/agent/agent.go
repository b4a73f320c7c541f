// Package agent orchestrates one conversation turn: retrieve, assemble
// context, generate, and record the completed exchange. A turn that
// fails or is cancelled leaves the session transcript untouched.
package agent

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/careerintel/server/internal/citations"
	"codeberg.org/careerintel/server/internal/llm"
	"codeberg.org/careerintel/server/internal/logger"
	"codeberg.org/careerintel/server/internal/sessions"
)

func New(ret Retriever, generator llm.TextGenerator, streamer llm.StreamingGenerator, store citations.DocumentChecker) *Agent {
	return NewWithConfig(ret, generator, streamer, store, DefaultConfig())
}

func NewWithConfig(ret Retriever, generator llm.TextGenerator, streamer llm.StreamingGenerator, store citations.DocumentChecker, config Config) *Agent {
	return &Agent{
		retriever: ret,
		generator: generator,
		streamer:  streamer,
		store:     store,
		config:    config,
	}
}

// Ask runs one complete turn and blocks until the answer is ready
func (a *Agent) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	prepared, err := a.prepare(ctx, req, nil)
	if err != nil {
		return nil, err
	}

	genResp, err := a.generator.GenerateText(ctx, prepared.genReq)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	prepared.cites = a.reconcile(ctx, prepared.cites)
	resp := prepared.finish(genResp.Text, genResp.Usage)
	a.record(req, resp)

	return resp, nil
}

// AskStream runs one turn, emitting state transitions and tokens on the
// returned channel. The channel closes after a terminal event: a
// Completed event carrying the full response, or an event with Err set.
func (a *Agent) AskStream(ctx context.Context, req AskRequest) <-chan Event {
	events := make(chan Event, 16)

	go func() {
		defer close(events)

		a.runStream(ctx, req, events)
	}()

	return events
}

func (a *Agent) runStream(ctx context.Context, req AskRequest, events chan<- Event) {
	emit := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	// terminal events after cancellation must not block on an
	// abandoned reader; the channel buffer absorbs them
	emitFinal := func(ev Event) {
		select {
		case events <- ev:
		default:
		}
	}

	if !emit(Event{State: StateRetrieving}) {
		return
	}

	prepared, err := a.prepare(ctx, req, func() {
		emit(Event{State: StateAssembling})
	})
	if err != nil {
		emit(Event{State: StateFailed, Err: err})
		return
	}

	if !emit(Event{State: StateGenerating}) {
		return
	}

	stream, err := a.streamer.GenerateTextStream(ctx, prepared.genReq)
	if err != nil {
		emit(Event{State: StateFailed, Err: fmt.Errorf("failed to start generation: %w", err)})
		return
	}

	var answer []byte

	var usage llm.Usage

	for ev := range stream {
		switch {
		case ev.Err != nil:
			state := StateFailed

			var partial *AskResponse

			// a cancelled turn still reports the citations resolved
			// before generation was abandoned
			if errors.Is(ev.Err, context.Canceled) {
				state = StateCancelled
				prepared.cites = a.reconcile(ctx, prepared.cites)
				partial = prepared.finish(string(answer), usage)
			}

			emitFinal(Event{State: state, Response: partial, Err: ev.Err})

			return
		case ev.Done:
			usage = ev.Usage
		default:
			answer = append(answer, ev.Token...)

			if !emit(Event{Token: ev.Token}) {
				return
			}
		}
	}

	if ctx.Err() != nil {
		prepared.cites = a.reconcile(ctx, prepared.cites)
		emitFinal(Event{State: StateCancelled, Response: prepared.finish(string(answer), usage), Err: ctx.Err()})

		return
	}

	prepared.cites = a.reconcile(ctx, prepared.cites)
	resp := prepared.finish(string(answer), usage)
	a.record(req, resp)

	emit(Event{State: StateCompleted, Response: resp})
}

// everything computed before generation starts
type preparedTurn struct {
	genReq         llm.TextGenerationRequest
	cites          []citations.Citation
	chunksUsed     int
	degraded       bool
	unresolvedRefs []int
}

// prepare retrieves chunks and assembles the generation request: system
// prompt with tagged excerpts, then recent history, then the new query.
// onAssembly, if set, is called after retrieval and before assembly.
func (a *Agent) prepare(ctx context.Context, req AskRequest, onAssembly func()) (*preparedTurn, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	retrieval, err := a.retriever.Retrieve(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}

	if onAssembly != nil {
		onAssembly()
	}

	docContext, kept := buildDocumentContext(retrieval.Matches, a.config.ContextCeiling)

	if dropped := len(retrieval.Matches) - len(kept); dropped > 0 {
		logger.Debug("context ceiling dropped chunks",
			"dropped", dropped, "kept", len(kept))
	}

	systemPrompt := buildSystemPrompt(systemPromptContext{
		DocumentContext: docContext,
		UnresolvedRefs:  retrieval.UnresolvedRefs,
	})

	var history []sessions.Turn
	if req.Session != nil {
		history = req.Session.RecentTurns(a.config.MaxHistoryTurns)
	}

	messages := buildHistoryMessages(history, a.config.MaxAssistantChars)
	messages = append(messages, llm.Message{Role: "user", Content: req.Query})

	return &preparedTurn{
		genReq: llm.TextGenerationRequest{
			SystemPrompt: systemPrompt,
			Messages:     messages,
		},
		cites:          citations.FromMatches(kept),
		chunksUsed:     len(kept),
		degraded:       retrieval.Degraded(),
		unresolvedRefs: retrieval.UnresolvedRefs,
	}, nil
}

func (p *preparedTurn) finish(answer string, usage llm.Usage) *AskResponse {
	return &AskResponse{
		Answer:         answer,
		Citations:      p.cites,
		ChunksUsed:     p.chunksUsed,
		Degraded:       p.degraded,
		UnresolvedRefs: p.unresolvedRefs,
		InputTokens:    usage.InputTokens,
		OutputTokens:   usage.OutputTokens,
	}
}

// reconcile drops citations whose document was deleted mid-turn. A
// reconciliation failure is not worth failing the turn over, the
// unreconciled list is returned instead.
func (a *Agent) reconcile(ctx context.Context, cites []citations.Citation) []citations.Citation {
	if a.store == nil {
		return cites
	}

	live, err := citations.Reconcile(context.WithoutCancel(ctx), a.store, cites)
	if err != nil {
		logger.Warn("failed to reconcile citations", "error", err)
		return cites
	}

	return live
}

// record appends the completed exchange to the session transcript
func (a *Agent) record(req AskRequest, resp *AskResponse) {
	if req.Session == nil {
		return
	}

	req.Session.AppendTurn(sessions.Turn{
		Question:  req.Query,
		Answer:    resp.Answer,
		Citations: resp.Citations,
	})
}
