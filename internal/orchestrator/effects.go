package orchestrator

import "time"

// Effect is a side effect the orchestrator asks its host to perform. The
// orchestrator itself never does I/O and never touches timers; it only
// decides. The UI maps effects onto bubbletea commands.
type Effect interface {
	effect()
}

// FetchInference asks for one inference request. Forced fetches are the
// out-of-band refreshes issued after training completes or after a ticker
// change; they originate from the orchestrator itself so the in-flight guard
// has already been applied.
type FetchInference struct {
	Forced bool
}

// FetchFeed asks for one refresh of the secondary feed (news + logs).
type FetchFeed struct{}

// ScheduleRefresh arms the primary refresh timer.
type ScheduleRefresh struct {
	After time.Duration
}

// ScheduleFeed arms the secondary feed timer.
type ScheduleFeed struct {
	After time.Duration
}

// StartTraining issues the start-training request.
type StartTraining struct {
	Episodes int
}

// PollStatus issues one training-status request for the given session token.
type PollStatus struct {
	Token string
}

// SchedulePoll arms the next poll of a training session.
type SchedulePoll struct {
	Token string
	After time.Duration
}

// Notify surfaces a one-shot user-visible notice.
type Notify struct {
	Text string
}

func (FetchInference) effect()  {}
func (FetchFeed) effect()       {}
func (ScheduleRefresh) effect() {}
func (ScheduleFeed) effect()    {}
func (StartTraining) effect()   {}
func (PollStatus) effect()      {}
func (SchedulePoll) effect()    {}
func (Notify) effect()          {}
