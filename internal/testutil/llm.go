package testutil

import (
	"context"
	"sync"

	"github.com/jonathan/presence-analyzer/internal/llm"
)

// ScriptedReply is one canned model response.
type ScriptedReply struct {
	Text string
	Err  error
}

// ScriptedClient is an llm.Client that returns replies in order and records every request.
// Once the script is exhausted the last reply repeats.
type ScriptedClient struct {
	mu       sync.Mutex
	replies  []ScriptedReply
	requests []llm.Request
}

// NewScriptedClient returns a client that answers with texts in order.
func NewScriptedClient(texts ...string) *ScriptedClient {
	c := &ScriptedClient{}
	for _, text := range texts {
		c.replies = append(c.replies, ScriptedReply{Text: text})
	}
	return c
}

// NewFailingClient returns a client whose every call fails with err.
func NewFailingClient(err error) *ScriptedClient {
	return &ScriptedClient{replies: []ScriptedReply{{Err: err}}}
}

// Then appends a reply to the script.
func (c *ScriptedClient) Then(reply ScriptedReply) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, reply)
	return c
}

// Complete implements llm.Client.
func (c *ScriptedClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := len(c.requests)
	c.requests = append(c.requests, req)
	if len(c.replies) == 0 {
		return "", nil
	}
	if idx >= len(c.replies) {
		idx = len(c.replies) - 1
	}
	reply := c.replies[idx]
	return reply.Text, reply.Err
}

// Provider implements llm.Client.
func (c *ScriptedClient) Provider() llm.Provider { return llm.ProviderOpenAI }

// Model implements llm.Client.
func (c *ScriptedClient) Model() string { return "scripted" }

// Close implements llm.Client.
func (c *ScriptedClient) Close() error { return nil }

// Requests returns a copy of every request received so far.
func (c *ScriptedClient) Requests() []llm.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]llm.Request(nil), c.requests...)
}
