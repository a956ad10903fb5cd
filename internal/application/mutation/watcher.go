// internal/application/mutation/watcher.go
package mutation

// Watcher keeps every rendered instance of a product's control converged
// with the shared pending registry. Two rules:
//
//   - an operation begins elsewhere -> an idle machine for the same key
//     mirrors the pending state (ownership stays with the initiator)
//   - the operation settles -> a machine still pending without owning the
//     flight never received its own resolution; force it back to idle
//
// This is what prevents state leaks when the same product is rendered in
// two places and only one of them receives the resolution event.
type Watcher struct {
	coord *Coordinator
	stop  func()
}

// NewWatcher subscribes to the coordinator's registry and starts watching
// immediately.
func NewWatcher(coord *Coordinator) *Watcher {
	w := &Watcher{coord: coord}
	w.stop = coord.reg.Subscribe(w.onChange)
	return w
}

// Stop unsubscribes. Safe to call more than once.
func (w *Watcher) Stop() {
	if w.stop != nil {
		w.stop()
		w.stop = nil
	}
}

func (w *Watcher) onChange(key Key, op *PendingOperation) {
	m := w.coord.peek(key)
	if m == nil {
		return
	}
	if op != nil {
		m.mirrorPending(op.Direction)
		return
	}
	m.reconcile()
}
