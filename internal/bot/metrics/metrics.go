package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ReactionsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kcdbot_reactions_dispatched_total",
	Help: "Number of bot reactions dispatched to a handler",
}, []string{"reaction"})

var ReactionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kcdbot_reaction_failures_total",
	Help: "Number of bot reaction handlers that returned an error",
}, []string{"reaction"})

var MembersWelcomed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "kcdbot_members_welcomed_total",
	Help: "Number of welcome threads created",
})

var BotLogWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kcdbot_bot_log_writes_total",
	Help: "Number of bot log writes by outcome",
}, []string{"result"})

var SelfDestructDeletions = promauto.NewCounter(prometheus.CounterOpts{
	Name: "kcdbot_self_destruct_deletions_total",
	Help: "Number of expired self-destruct messages deleted",
})

var SweepFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "kcdbot_guild_sweep_failures_total",
	Help: "Number of guild sweeps that finished with non-transient errors",
})
