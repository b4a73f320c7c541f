package llm

import (
	"context"
	"strings"
	"testing"
)

const sampleStream = `event: message_start
data: {"type":"message_start","message":{"usage":{"input_tokens":42,"output_tokens":0}}}

event: content_block_start
data: {"type":"content_block_start","index":0}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Your resume"}}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" shows strong Go experience."}}

event: content_block_stop
data: {"type":"content_block_stop","index":0}

event: message_delta
data: {"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":7}}

event: message_stop
data: {"type":"message_stop"}

`

func TestReadStreamAssemblesTokens(t *testing.T) {
	g := NewAnthropicGenerator(AnthropicConfig{APIKey: "test", Model: "test-model"})

	events := make(chan StreamEvent, 16)

	go func() {
		defer close(events)
		g.readStream(context.Background(), strings.NewReader(sampleStream), events)
	}()

	var text strings.Builder

	var final StreamEvent

	for ev := range events {
		if ev.Err != nil {
			t.Fatalf("unexpected stream error: %v", ev.Err)
		}

		if ev.Done {
			final = ev
			continue
		}

		text.WriteString(ev.Token)
	}

	if got := text.String(); got != "Your resume shows strong Go experience." {
		t.Errorf("unexpected assembled text: %q", got)
	}

	if !final.Done {
		t.Fatal("expected a terminal Done event")
	}

	if final.Usage.InputTokens != 42 || final.Usage.OutputTokens != 7 {
		t.Errorf("unexpected usage: %+v", final.Usage)
	}
}

func TestReadStreamSurfacesAPIError(t *testing.T) {
	g := NewAnthropicGenerator(AnthropicConfig{APIKey: "test", Model: "test-model"})

	stream := `data: {"type":"error","error":{"type":"overloaded_error","message":"try again"}}` + "\n"

	events := make(chan StreamEvent, 16)

	go func() {
		defer close(events)
		g.readStream(context.Background(), strings.NewReader(stream), events)
	}()

	var sawErr bool

	for ev := range events {
		if ev.Err != nil {
			sawErr = true

			if !strings.Contains(ev.Err.Error(), "overloaded_error") {
				t.Errorf("error should carry the provider's type: %v", ev.Err)
			}
		}
	}

	if !sawErr {
		t.Fatal("expected an error event")
	}
}
