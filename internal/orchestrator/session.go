package orchestrator

// SessionStatus tracks the client-side lifecycle of a backend training job.
type SessionStatus int

const (
	StatusIdle SessionStatus = iota
	StatusStarting
	StatusRunning
	StatusCompleting
	StatusFailed
)

func (s SessionStatus) String() string {
	switch s {
	case StatusStarting:
		return "STARTING"
	case StatusRunning:
		return "RUNNING"
	case StatusCompleting:
		return "COMPLETING"
	case StatusFailed:
		return "FAILED"
	default:
		return "IDLE"
	}
}

// TrainingSession is the client-tracked state of one background training
// job. Created optimistically when the user confirms training, destroyed when
// the job completes or fails.
type TrainingSession struct {
	Episode    int
	Total      int
	LastReward float64
	Status     SessionStatus
}
