// Package memory keeps a per-user rolling summary of the dialogue.
// Recent turns are kept verbatim; once the token budget is exceeded the
// oldest turns are folded into a running summary by the language model.
// Nothing here ever touches durable storage.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

// Turn is one exchange: what the user said and what we answered.
type Turn struct {
	Input  string
	Output string
}

// Summarizer folds turns into a running summary.
type Summarizer interface {
	Summarize(ctx context.Context, prior string, turns []Turn) (string, error)
}

type Config struct {
	// MaxTokens bounds the rendered context; overflow is summarized.
	MaxTokens int
	// MaxUsers caps how many users keep live memory. The least
	// recently active user is evicted when the cap is hit.
	MaxUsers int
}

const (
	defaultMaxTokens = 2000
	defaultMaxUsers  = 1024
)

// Store holds per-user conversations behind an LRU so total memory
// stays bounded no matter how many distinct users show up. Each
// conversation carries its own lock: appends for one user are
// serialized (including the summarization call) without blocking
// other users.
type Store struct {
	summarizer Summarizer
	maxTokens  int

	mu    sync.Mutex // guards get-or-create on users
	users *lru.Cache[string, *conversation]
}

type conversation struct {
	mu      sync.Mutex
	summary string
	turns   []Turn
}

func NewStore(summarizer Summarizer, cfg Config) (*Store, error) {
	if summarizer == nil {
		return nil, fmt.Errorf("%w: summarizer is required", contractx.ErrValidation)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.MaxUsers <= 0 {
		cfg.MaxUsers = defaultMaxUsers
	}

	users, err := lru.New[string, *conversation](cfg.MaxUsers)
	if err != nil {
		return nil, fmt.Errorf("create user cache: %w", err)
	}

	return &Store{
		summarizer: summarizer,
		maxTokens:  cfg.MaxTokens,
		users:      users,
	}, nil
}

// ReadContext renders the user's current buffer for prompt inclusion.
// A user with no history gets an empty string.
func (s *Store) ReadContext(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	c, ok := s.users.Get(userID)
	s.mu.Unlock()
	if !ok {
		return "", nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render(), nil
}

// AppendTurn stores one exchange and enforces the token budget by
// summarizing the oldest turns through the model when needed.
func (s *Store) AppendTurn(ctx context.Context, userID, input, output string) error {
	c := s.getOrCreate(userID)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns = append(c.turns, Turn{Input: input, Output: output})

	var overflow []Turn
	for c.tokens() > s.maxTokens && len(c.turns) > 1 {
		overflow = append(overflow, c.turns[0])
		c.turns = c.turns[1:]
	}
	if len(overflow) == 0 {
		return nil
	}

	summary, err := s.summarizer.Summarize(ctx, c.summary, overflow)
	if err != nil {
		// Keep the trimmed turns dropped rather than regrow without
		// bound; the turn itself is already recorded.
		return fmt.Errorf("%w: summarize conversation: %v", contractx.ErrModelInvoke, err)
	}
	c.summary = strings.TrimSpace(summary)
	return nil
}

// ActiveUsers reports how many users currently hold live memory.
func (s *Store) ActiveUsers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.Len()
}

func (s *Store) getOrCreate(userID string) *conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.users.Get(userID); ok {
		return c
	}
	c := &conversation{}
	s.users.Add(userID, c)
	return c
}

func (c *conversation) render() string {
	var b strings.Builder
	if c.summary != "" {
		b.WriteString("System: ")
		b.WriteString(c.summary)
	}
	for _, t := range c.turns {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Human: ")
		b.WriteString(t.Input)
		b.WriteString("\nAI: ")
		b.WriteString(t.Output)
	}
	return b.String()
}

func (c *conversation) tokens() int {
	return estimateTokens(c.render())
}

// estimateTokens approximates the model tokenizer at ~4 chars/token,
// which is close enough to keep the buffer near its budget.
func estimateTokens(s string) int {
	return (len(s) + 3) / 4
}
