package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation counters exposed on /metrics. Incremented at the single
// mutation entry points so every caller path is counted once.
var (
	messagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatd_messages_sent_total",
		Help: "Messages appended to conversations.",
	})
	conversationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatd_conversations_created_total",
		Help: "Conversations created (direct and group).",
	})
	// ReactionsToggled counts reaction toggle mutations.
	ReactionsToggled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatd_reactions_toggled_total",
		Help: "Reaction toggle operations applied to messages.",
	})
	// ReadsMarked counts mark-read mutations.
	ReadsMarked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatd_reads_marked_total",
		Help: "Conversation read markers advanced.",
	})
	// TypingUpdates counts typing refresh mutations.
	TypingUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatd_typing_updates_total",
		Help: "Typing entries inserted or refreshed.",
	})
)
