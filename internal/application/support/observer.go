package support

import "time"

// Observer 编排过程的指标观察者
type Observer interface {
	ObserveRequest(status, category, handledBy string, elapsed time.Duration)
	ObserveCollaborator(collaborator string, elapsed time.Duration, err error)
	ObserveRecordFailure()
}

type noopObserver struct{}

func (noopObserver) ObserveRequest(string, string, string, time.Duration) {}

func (noopObserver) ObserveCollaborator(string, time.Duration, error) {}

func (noopObserver) ObserveRecordFailure() {}
