package asyncrt

// handleID identifies a handle uniquely within its Executor, for logging.
// The naive worker's best-effort Abort is keyed by fd, not by this id.
type handleID uint64

// handle is the runtime-owned instance of one top-level coroutine launch:
// the frame stack it drives, which Processor owns it, and the terminal
// error (if any) observed once the whole chain unwinds. Unexported: callers
// interact with it only indirectly, via the Action a step returns and
// through Future/Promise for results.
type handle struct {
	id       handleID
	proc     *Processor
	top      *frame
	finalErr error
	done     bool
}

func newHandle(id handleID, proc *Processor, coro Coroutine) *handle {
	return &handle{id: id, proc: proc, top: newFrame(coro)}
}

// runStep calls the handle's current step exactly once and resolves the
// resulting Action through takeAction: any chained FINISH/ERROR/
// START_CHILD bookkeeping that doesn't require invoking further user code
// happens here before returning. The caller (Processor) decides how many
// times in a row to call runStep on the same handle — that batching is
// the per-turn fairness budget, kept at the Processor level rather than
// inside the handle, since only the Processor knows about the ready
// queue other handles are waiting in.
func (h *handle) runStep() Action {
	if h.top == nil {
		return finishAction()
	}
	raw := callStep(h.top.currentStep)
	markConsumed(&raw)
	action := h.takeAction(raw)
	if action.kind == ActionNone {
		// A START_CHILD was linked; the child's first step runs on the
		// next runStep call, still within the caller's budget.
		return repeatAction()
	}
	return action
}

// takeAction resolves action against the handle's frame stack, following
// chained FINISH/ERROR/START_CHILD transitions without returning to the
// caller until it reaches an Action the Processor (or a sub-worker) must
// act on externally, or the frame stack is exhausted.
//
// Two points depart from a literal reading of the historical C++ source
// (see DESIGN.md): START_CHILD defers the child's first step to the next
// runStep call rather than recursing synchronously, and a
// declined ERROR correctly re-installs the parent's resume step before
// continuing to propagate, so every ancestor frame's HandleError gets a
// chance — the original appears to skip that reinstallation.
func (h *handle) takeAction(action Action) Action {
	for {
		switch action.kind {
		case ActionNone:
			return action

		case ActionStartChild:
			child := action.child
			child.parent = h.top
			if h.top != nil {
				child.parentReturnStep = h.top.currentStep
			}
			if action.step != nil {
				child.parentReturnAction = yieldToAction(action.step)
			} else {
				child.parentReturnAction = repeatAction()
			}
			h.top = child
			return Action{kind: ActionNone}

		case ActionYieldTo:
			h.top.currentStep = action.step
			return action

		case ActionRepeat, ActionWaitRepeat, ActionIOWait, ActionIORepeat,
			ActionWaitList, ActionWaitListTimed:
			return action

		case ActionFinish:
			finished := h.top
			parent := finished.parent
			if parent == nil {
				h.top = nil
				h.done = true
				return finishAction()
			}
			h.top = parent
			parent.currentStep = finished.parentReturnStep
			action = finished.parentReturnAction
			continue

		case ActionError:
			result := h.top.handleError(action.err)
			if result.kind != ActionError {
				// Handled in place: the frame stays on top, possibly with a
				// new step (YIELD_TO) or other continuation.
				action = result
				continue
			}
			// Declined (or translated into a different error): pop this
			// frame and keep propagating, giving the next ancestor's
			// HandleError a turn.
			finished := h.top
			parent := finished.parent
			h.top = parent
			if parent == nil {
				h.done = true
				h.finalErr = result.err
				return finishAction()
			}
			parent.currentStep = finished.parentReturnStep
			action = result
			continue

		default:
			panicInvariantf("asyncrt: unknown action kind %v", action.kind)
			return Action{}
		}
	}
}

// Err returns the error the handle finished with, if any. Only meaningful
// once the handle has completed (runStep returned ActionFinish with no
// further frames).
func (h *handle) Err() error { return h.finalErr }

// Done reports whether the whole frame chain has unwound.
func (h *handle) Done() bool { return h.done }
