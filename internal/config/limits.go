package config

import "time"

const (
	// MaxToolIterations bounds the pharmacy agent's tool-calling loop.
	// A malfunctioning model could otherwise request tools forever and
	// exhaust provider quota; the loop force-terminates at this bound.
	MaxToolIterations = 5

	// HistoryWindow is the number of recent conversation turns included
	// in the chat prompt. Older turns stay in the session but are
	// excluded from context.
	HistoryWindow = 10

	// RetrievalThreshold is the minimum cosine similarity for a record
	// chunk to be included in RAG context.
	RetrievalThreshold = 0.5

	// RetrievalLimit caps the number of record chunks per query.
	RetrievalLimit = 5

	// MaxSessions caps the in-memory conversation store. The least
	// recently used session is evicted when the cap is exceeded.
	MaxSessions = 1000

	// MaxChatMessageLength is the maximum length for an inbound chat
	// message. Limited to keep prompts inside model context budgets.
	MaxChatMessageLength = 8192

	// RequestTimeout is the overall deadline for one chat turn,
	// covering model calls, tool dispatches, and voice synthesis.
	RequestTimeout = 90 * time.Second
)
