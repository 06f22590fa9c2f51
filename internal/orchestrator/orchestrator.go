// Package orchestrator coordinates the dashboard's refresh cycles: the
// primary inference fetch, the secondary feed refresh, the training-session
// lifecycle and teardown. It is a single-threaded state machine; callers
// invoke exactly one handler per event and execute the returned effects.
package orchestrator

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/cgpo-terminal/internal/api"
)

// State is the orchestrator's top-level state.
type State int

const (
	Idle State = iota
	FetchingInference
	TrainingStarting
	TrainingPolling
)

func (s State) String() string {
	switch s {
	case FetchingInference:
		return "FETCHING"
	case TrainingStarting:
		return "TRAIN_START"
	case TrainingPolling:
		return "TRAIN_POLL"
	default:
		return "IDLE"
	}
}

// Orchestrator owns the refresh-cycle guards and the training session. The
// guard fields are read at decision time inside each handler, never from
// values captured when a timer was armed.
type Orchestrator struct {
	state             State
	inferenceInFlight bool
	trainingActive    bool
	tornDown          bool

	// pollToken identifies the active polling session. Responses carrying a
	// stale token are discarded before any state commit.
	pollToken string

	// pendingFetch records a forced fetch that must serialize behind the
	// request currently in flight (or behind an active training session).
	pendingFetch bool

	session *TrainingSession
	banner  string

	refreshEvery time.Duration
	feedEvery    time.Duration
	pollEvery    time.Duration

	log zerolog.Logger
}

// New creates an orchestrator in Idle with the given timer periods.
func New(refreshEvery, feedEvery, pollEvery time.Duration, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		refreshEvery: refreshEvery,
		feedEvery:    feedEvery,
		pollEvery:    pollEvery,
		log:          log.With().Str("component", "orchestrator").Logger(),
	}
}

// Accessors

func (o *Orchestrator) State() State            { return o.state }
func (o *Orchestrator) InferenceInFlight() bool { return o.inferenceInFlight }
func (o *Orchestrator) TrainingActive() bool    { return o.trainingActive }
func (o *Orchestrator) TornDown() bool          { return o.tornDown }

// Banner returns the persistent failure banner, or "" when the backend is
// healthy.
func (o *Orchestrator) Banner() string { return o.banner }

// Session returns the active training session, or nil.
func (o *Orchestrator) Session() *TrainingSession { return o.session }

// Start issues the initial inference fetch and feed refresh, independently
// of each other, and arms both recurring timers.
func (o *Orchestrator) Start() []Effect {
	if o.tornDown {
		return nil
	}
	effects := []Effect{
		o.beginFetch(false),
		FetchFeed{},
		ScheduleRefresh{After: o.refreshEvery},
		ScheduleFeed{After: o.feedEvery},
	}
	return effects
}

// RefreshTick handles the primary timer. The tick is skipped (not queued)
// when a fetch or a training session is active; no backlog accumulates.
func (o *Orchestrator) RefreshTick() []Effect {
	if o.tornDown {
		return nil
	}
	effects := []Effect{ScheduleRefresh{After: o.refreshEvery}}
	if o.inferenceInFlight || o.trainingActive {
		o.log.Debug().Bool("in_flight", o.inferenceInFlight).Bool("training", o.trainingActive).Msg("Refresh tick skipped")
		return effects
	}
	return append(effects, o.beginFetch(false))
}

// ManualRefresh handles a user-initiated refresh. It respects the same
// guards as the timer; a manual action is the documented retry path after a
// failed fetch.
func (o *Orchestrator) ManualRefresh() []Effect {
	if o.tornDown || o.inferenceInFlight || o.trainingActive {
		return nil
	}
	return []Effect{o.beginFetch(false)}
}

// FeedTick handles the secondary timer. It runs unconditionally: a slow
// primary fetch never delays or skips feed refreshes.
func (o *Orchestrator) FeedTick() []Effect {
	if o.tornDown {
		return nil
	}
	return []Effect{FetchFeed{}, ScheduleFeed{After: o.feedEvery}}
}

// InferenceDone handles the result of an inference fetch. Failures raise a
// persistent banner and are not retried; the next tick or manual action is
// the retry mechanism.
func (o *Orchestrator) InferenceDone(err error) []Effect {
	if o.tornDown {
		return nil
	}
	o.inferenceInFlight = false
	if o.state == FetchingInference {
		o.state = Idle
	}
	if err != nil {
		o.log.Error().Err(err).Msg("Inference fetch failed")
		if api.IsApplicationError(err) {
			o.banner = "AI CORE ERROR // " + err.Error()
		} else {
			o.banner = "AI CORE UNREACHABLE // backend offline or unreachable"
		}
		return nil
	}
	o.banner = ""
	if o.pendingFetch && !o.trainingActive {
		o.pendingFetch = false
		return []Effect{o.beginFetch(true)}
	}
	return nil
}

// ConfirmTraining handles user confirmation of a training run. The session
// is initialized optimistically before the start request resolves.
func (o *Orchestrator) ConfirmTraining(episodes int) []Effect {
	if o.tornDown || o.trainingActive {
		return nil
	}
	o.trainingActive = true
	o.state = TrainingStarting
	o.session = &TrainingSession{Total: episodes, Status: StatusStarting}
	o.log.Info().Int("episodes", episodes).Msg("Training requested")
	return []Effect{StartTraining{Episodes: episodes}}
}

// TrainingStartDone handles the start-training response. Failure aborts
// immediately with a single notice and no retry.
func (o *Orchestrator) TrainingStartDone(err error) []Effect {
	if o.tornDown || !o.trainingActive {
		return nil
	}
	if err != nil {
		o.log.Error().Err(err).Msg("Training start failed")
		o.endSession(StatusFailed)
		return []Effect{Notify{Text: "TRAINING START FAILED // " + err.Error()}}
	}
	o.state = TrainingPolling
	o.session.Status = StatusRunning
	o.pollToken = uuid.NewString()
	return []Effect{PollStatus{Token: o.pollToken}}
}

// PollTick handles the poll timer firing. The token check is the loop
// re-entry cancellation point: a timer armed before teardown or session end
// produces nothing.
func (o *Orchestrator) PollTick(token string) []Effect {
	if o.tornDown || token == "" || token != o.pollToken {
		return nil
	}
	return []Effect{PollStatus{Token: token}}
}

// PollDone handles a training-status response. The token check runs before
// any state commit so a stale response has no observable side effect.
func (o *Orchestrator) PollDone(token string, st api.TrainingStatus, err error) []Effect {
	if o.tornDown || token == "" || token != o.pollToken {
		return nil
	}
	if err != nil {
		o.log.Error().Err(err).Msg("Training status poll failed")
		o.endSession(StatusFailed)
		return []Effect{Notify{Text: "TRAINING ABORTED // status poll failed"}}
	}
	if st.IsTraining {
		o.session.Episode = st.Episode
		o.session.Total = st.Total
		o.session.LastReward = st.LastReward
		return []Effect{SchedulePoll{Token: token, After: o.pollEvery}}
	}

	// Job finished server-side: discard the session and surface the freshly
	// trained result with one out-of-band fetch.
	o.log.Info().Msg("Training complete")
	o.endSession(StatusCompleting)
	effects := []Effect{Notify{Text: "TRAINING COMPLETE // model updated"}}
	if o.inferenceInFlight {
		o.pendingFetch = true
		return effects
	}
	o.pendingFetch = false
	return append(effects, o.beginFetch(true))
}

// TickersApplied handles the result of a /config/tickers write. A successful
// write is followed by a forced fetch, serialized behind any request already
// in flight and behind an active training session.
func (o *Orchestrator) TickersApplied(err error) []Effect {
	if o.tornDown {
		return nil
	}
	if err != nil {
		o.log.Error().Err(err).Msg("Ticker update failed")
		return []Effect{Notify{Text: "TICKER UPDATE FAILED // " + err.Error()}}
	}
	if o.inferenceInFlight || o.trainingActive {
		o.pendingFetch = true
		return nil
	}
	o.pendingFetch = false
	return []Effect{o.beginFetch(true)}
}

// Teardown cancels everything. Every handler is inert afterwards, so timers
// that already fired and responses still in flight mutate nothing.
func (o *Orchestrator) Teardown() {
	o.tornDown = true
	o.pollToken = ""
	o.session = nil
	o.log.Debug().Msg("Orchestrator torn down")
}

// beginFetch flips the in-flight guard and moves to FetchingInference. The
// state is left alone while a training session owns it.
func (o *Orchestrator) beginFetch(forced bool) Effect {
	o.inferenceInFlight = true
	if o.state == Idle {
		o.state = FetchingInference
	}
	return FetchInference{Forced: forced}
}

// endSession discards the training session. finalStatus is recorded on the
// session for the brief moment observers may still hold it.
func (o *Orchestrator) endSession(finalStatus SessionStatus) {
	if o.session != nil {
		o.session.Status = finalStatus
	}
	o.session = nil
	o.trainingActive = false
	o.pollToken = ""
	o.state = Idle
}
