package tool

import "sync"

// InvokeObservation captures one tool invocation outcome.
type InvokeObservation struct {
	Tool       string
	Extension  string
	DurationMS int64
	Success    bool
	ErrorKind  string
}

// Observer receives tool-level observability events. Implementations must
// be safe for concurrent use and must not block; invocation latency is on
// the caller's path.
type Observer interface {
	ObserveInvoke(observation InvokeObservation)
}

type noopObserver struct{}

func (noopObserver) ObserveInvoke(InvokeObservation) {}

var (
	observerMu     sync.RWMutex
	activeObserver Observer = noopObserver{}
)

// SetObserver sets the process-wide tool observer. Passing nil restores
// the no-op observer.
func SetObserver(observer Observer) {
	observerMu.Lock()
	defer observerMu.Unlock()
	if observer == nil {
		activeObserver = noopObserver{}
		return
	}
	activeObserver = observer
}

// EmitInvokeObservation delivers one observation to the active observer.
// Tool implementations call this once per Run.
func EmitInvokeObservation(observation InvokeObservation) {
	observerMu.RLock()
	observer := activeObserver
	observerMu.RUnlock()
	observer.ObserveInvoke(observation)
}

// CompositeObserver fans observations out to several observers.
type CompositeObserver []Observer

// ObserveInvoke forwards the observation to every member.
func (c CompositeObserver) ObserveInvoke(observation InvokeObservation) {
	for _, observer := range c {
		if observer != nil {
			observer.ObserveInvoke(observation)
		}
	}
}
