package reactions

import (
	"context"

	"github.com/kcdcommunity/kcdbot/internal/bot/constants"
)

// Kind is a bot reaction the dispatcher knows how to handle.
type Kind int

const (
	KindAsk Kind = iota
	KindHelp
	KindReport
	KindThread
	KindDoubleMessage
	KindDontAskToAsk
	KindOfficeHours
	KindCallKent
)

type handlerFunc func(d *Dispatcher, ctx context.Context, r *Reaction) error

type definition struct {
	name        string
	description string
	handle      handlerFunc
}

// Kinds lists every reaction in the order the help embed shows them.
var Kinds = []Kind{
	KindAsk,
	KindHelp,
	KindReport,
	KindThread,
	KindDoubleMessage,
	KindDontAskToAsk,
	KindOfficeHours,
	KindCallKent,
}

var (
	registry    map[Kind]definition
	kindsByName map[string]Kind
)

// Populated in init: help reads the registry, which a var initializer would turn into a cycle.
func init() {
	registry = map[Kind]definition{
		KindAsk: {
			name:        constants.ReactionAsk,
			description: "Creates a thread for the message and asks for more details about a question. Useful if you know the question needs more details, but you can't commit to replying when they come.",
			handle:      (*Dispatcher).ask,
		},
		KindHelp: {
			name:        constants.ReactionHelp,
			description: "Lists available bot reactions",
			handle:      (*Dispatcher).help,
		},
		KindReport: {
			name:        constants.ReactionReport,
			description: "Reports a message to the server moderators to look at.",
			handle:      (*Dispatcher).report,
		},
		KindThread: {
			name:        constants.ReactionThread,
			description: "Creates a thread for the message. Handy if you know the message needs a thread, but you can't commit to participating in the conversation so you don't want to be the one to create it.",
			handle:      (*Dispatcher).thread,
		},
		KindDoubleMessage: {
			name:        constants.ReactionDouble,
			description: "Replies to the message telling the user to avoid posting the same question in multiple channels.",
			handle:      (*Dispatcher).doubleMessage,
		},
		KindDontAskToAsk: {
			name:   constants.ReactionDontAskToAsk,
			handle: (*Dispatcher).dontAskToAsk,
		},
		KindOfficeHours: {
			name:   constants.ReactionOfficeHours,
			handle: (*Dispatcher).officeHours,
		},
		KindCallKent: {
			name:   constants.ReactionCall,
			handle: (*Dispatcher).callKent,
		},
	}

	kindsByName = make(map[string]Kind, len(registry))
	for kind, def := range registry {
		kindsByName[def.name] = kind
	}
}

// ParseKind returns the reaction registered under an emoji name.
func ParseKind(name string) (Kind, bool) {
	kind, ok := kindsByName[name]
	return kind, ok
}

// String returns the emoji name of the reaction.
func (k Kind) String() string {
	if def, ok := registry[k]; ok {
		return def.name
	}
	return "unknown"
}

// Description returns the help text of the reaction, empty when it has none.
func (k Kind) Description() string {
	return registry[k].description
}
