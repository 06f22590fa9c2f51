package orchestrator

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/cgpo-terminal/internal/api"
)

func newTestOrchestrator() *Orchestrator {
	return New(30*time.Second, 10*time.Second, 2*time.Second, zerolog.Nop())
}

// effectsOf filters effects of type T out of a handler result.
func effectsOf[T Effect](effects []Effect) []T {
	var out []T
	for _, e := range effects {
		if typed, ok := e.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

func TestStartIssuesIndependentInitialFetches(t *testing.T) {
	o := newTestOrchestrator()
	effects := o.Start()

	assert.Len(t, effectsOf[FetchInference](effects), 1)
	assert.Len(t, effectsOf[FetchFeed](effects), 1)
	assert.Len(t, effectsOf[ScheduleRefresh](effects), 1)
	assert.Len(t, effectsOf[ScheduleFeed](effects), 1)
	assert.Equal(t, FetchingInference, o.State())
	assert.True(t, o.InferenceInFlight())
}

func TestRefreshTickSkippedWhileFetchInFlight(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()
	require.True(t, o.InferenceInFlight())

	// The tick must re-arm the timer but not issue a second request.
	effects := o.RefreshTick()
	assert.Empty(t, effectsOf[FetchInference](effects))
	assert.Len(t, effectsOf[ScheduleRefresh](effects), 1)

	// After the fetch resolves, the next tick fetches again.
	o.InferenceDone(nil)
	effects = o.RefreshTick()
	assert.Len(t, effectsOf[FetchInference](effects), 1)
}

func TestRefreshTickSkippedWhileTrainingActive(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()
	o.InferenceDone(nil)
	o.ConfirmTraining(5)

	effects := o.RefreshTick()
	assert.Empty(t, effectsOf[FetchInference](effects))
	assert.Len(t, effectsOf[ScheduleRefresh](effects), 1)
}

func TestFeedTickRunsRegardlessOfPrimaryFetch(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()
	require.True(t, o.InferenceInFlight())

	effects := o.FeedTick()
	assert.Len(t, effectsOf[FetchFeed](effects), 1)
	assert.Len(t, effectsOf[ScheduleFeed](effects), 1)
}

func TestInferenceFailureRaisesBannerWithoutRetry(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()

	effects := o.InferenceDone(errors.New("dial tcp: connection refused"))
	assert.Empty(t, effects)
	assert.Equal(t, Idle, o.State())
	assert.False(t, o.InferenceInFlight())
	assert.Contains(t, o.Banner(), "UNREACHABLE")

	// Success clears the banner.
	o.RefreshTick()
	o.InferenceDone(nil)
	assert.Empty(t, o.Banner())
}

func TestApplicationErrorBannerNamesBackendDetail(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()

	effects := o.InferenceDone(&api.APIError{Status: 500, Body: "Inference Error: no data"})
	assert.Empty(t, effects)
	assert.Contains(t, o.Banner(), "500")
	assert.Contains(t, o.Banner(), "no data")
}

func TestTrainingLifecycle(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()
	o.InferenceDone(nil)

	// Confirmation creates an optimistic session and issues the start call.
	effects := o.ConfirmTraining(5)
	require.Len(t, effectsOf[StartTraining](effects), 1)
	assert.Equal(t, 5, effectsOf[StartTraining](effects)[0].Episodes)
	require.NotNil(t, o.Session())
	assert.Equal(t, 0, o.Session().Episode)
	assert.Equal(t, 5, o.Session().Total)
	assert.Equal(t, StatusStarting, o.Session().Status)
	assert.Equal(t, TrainingStarting, o.State())

	// Start success moves to polling.
	effects = o.TrainingStartDone(nil)
	polls := effectsOf[PollStatus](effects)
	require.Len(t, polls, 1)
	token := polls[0].Token
	require.NotEmpty(t, token)
	assert.Equal(t, TrainingPolling, o.State())
	assert.Equal(t, StatusRunning, o.Session().Status)

	// Poll sequence: two active updates, then inactive.
	fetchCount := 0
	statuses := []api.TrainingStatus{
		{IsTraining: true, Episode: 1, Total: 5, LastReward: 0.5},
		{IsTraining: true, Episode: 2, Total: 5, LastReward: 0.8},
		{IsTraining: false},
	}
	for i, st := range statuses {
		effects = o.PollDone(token, st, nil)
		fetchCount += len(effectsOf[FetchInference](effects))
		if st.IsTraining {
			require.Len(t, effectsOf[SchedulePoll](effects), 1)
			assert.Equal(t, st.Episode, o.Session().Episode)
			assert.InDelta(t, st.LastReward, o.Session().LastReward, 1e-9)
			// The next poll is scheduled only after this one resolved.
			next := o.PollTick(token)
			require.Len(t, effectsOf[PollStatus](next), 1)
		} else {
			assert.Nil(t, o.Session(), "session must be discarded at step %d", i)
		}
	}

	// Exactly one out-of-band fetch, and it bypasses the idle gate.
	assert.Equal(t, 1, fetchCount)
	assert.True(t, o.InferenceInFlight())
	assert.False(t, o.TrainingActive())

	// No further polls fire for the dead session.
	assert.Empty(t, o.PollTick(token))
	assert.Empty(t, o.PollDone(token, api.TrainingStatus{IsTraining: true}, nil))
}

func TestTrainingStartFailureAbortsWithoutRetry(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()
	o.InferenceDone(nil)

	o.ConfirmTraining(10)
	effects := o.TrainingStartDone(errors.New("backend busy"))

	notices := effectsOf[Notify](effects)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].Text, "TRAINING START FAILED")
	assert.Nil(t, o.Session())
	assert.False(t, o.TrainingActive())
	assert.Equal(t, Idle, o.State())
	assert.Empty(t, effectsOf[StartTraining](effects))
}

func TestPollFailureAbortsSession(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()
	o.InferenceDone(nil)
	o.ConfirmTraining(10)
	effects := o.TrainingStartDone(nil)
	token := effectsOf[PollStatus](effects)[0].Token

	effects = o.PollDone(token, api.TrainingStatus{}, errors.New("timeout"))
	require.Len(t, effectsOf[Notify](effects), 1)
	assert.Nil(t, o.Session())
	assert.Equal(t, Idle, o.State())
	// Fail-fast: no reschedule, no fetch.
	assert.Empty(t, effectsOf[SchedulePoll](effects))
	assert.Empty(t, effectsOf[FetchInference](effects))
}

func TestDuplicateTrainingConfirmIgnored(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()
	o.InferenceDone(nil)

	require.NotEmpty(t, o.ConfirmTraining(5))
	assert.Empty(t, o.ConfirmTraining(5))
}

func TestTickerApplySerializesBehindInFlightFetch(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()
	require.True(t, o.InferenceInFlight())

	// Config write resolved while a fetch is in flight: the forced fetch
	// waits instead of overlapping.
	effects := o.TickersApplied(nil)
	assert.Empty(t, effectsOf[FetchInference](effects))

	// It fires as soon as the gate clears.
	effects = o.InferenceDone(nil)
	fetches := effectsOf[FetchInference](effects)
	require.Len(t, fetches, 1)
	assert.True(t, fetches[0].Forced)
	assert.True(t, o.InferenceInFlight())
}

func TestTickerApplyFetchesImmediatelyWhenIdle(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()
	o.InferenceDone(nil)

	effects := o.TickersApplied(nil)
	require.Len(t, effectsOf[FetchInference](effects), 1)
	assert.True(t, effectsOf[FetchInference](effects)[0].Forced)
}

func TestTrainingCompletionWhileFetchInFlightDefersForcedFetch(t *testing.T) {
	o := newTestOrchestrator()
	o.Start() // fetch in flight
	o.ConfirmTraining(5)
	effects := o.TrainingStartDone(nil)
	token := effectsOf[PollStatus](effects)[0].Token

	effects = o.PollDone(token, api.TrainingStatus{IsTraining: false}, nil)
	assert.Empty(t, effectsOf[FetchInference](effects), "forced fetch must not overlap the in-flight one")

	effects = o.InferenceDone(nil)
	require.Len(t, effectsOf[FetchInference](effects), 1)
}

func TestTeardownMakesEverythingInert(t *testing.T) {
	o := newTestOrchestrator()
	o.Start()
	o.InferenceDone(nil)
	o.ConfirmTraining(5)
	effects := o.TrainingStartDone(nil)
	token := effectsOf[PollStatus](effects)[0].Token

	o.Teardown()

	// A response arriving after teardown mutates nothing and schedules
	// nothing.
	assert.Empty(t, o.PollDone(token, api.TrainingStatus{IsTraining: true, Episode: 3}, nil))
	assert.Empty(t, o.PollTick(token))
	assert.Empty(t, o.RefreshTick())
	assert.Empty(t, o.FeedTick())
	assert.Empty(t, o.InferenceDone(nil))
	assert.Empty(t, o.ConfirmTraining(5))
	assert.Nil(t, o.Session())
}
