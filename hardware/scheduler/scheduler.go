// This file is part of GopherAdvance.
//
// GopherAdvance is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherAdvance is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherAdvance.  If not, see <https://www.gnu.org/licenses/>.

package scheduler

import (
	"container/heap"

	"github.com/seliware/gopheradvance/logger"
)

// Dispatch is the function called when an event fires. The hardware package
// supplies an implementation that routes on the EventID.
type Dispatch func(id EventID, data uint64)

// queue is ordered by trigger cycle, ties broken by insertion order.
type queue []*Event

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].trigger == q[j].trigger {
		return q[i].seq < q[j].seq
	}
	return q[i].trigger < q[j].trigger
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x interface{}) { *q = append(*q, x.(*Event)) }

func (q *queue) Pop() interface{} {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}

// Scheduler orders the work of every hardware subsystem on a single clock.
type Scheduler struct {
	cycles   uint64
	seq      uint64
	queue    queue
	dispatch Dispatch

	// a warning is logged the first time each EventID is clamped
	clampWarned [EventSentinal]bool
}

// New is the preferred method of initialisation for the Scheduler type.
func New(dispatch Dispatch) *Scheduler {
	sch := &Scheduler{dispatch: dispatch}
	heap.Init(&sch.queue)
	return sch
}

// Reset discards all pending events and rewinds the clock to zero.
func (sch *Scheduler) Reset() {
	sch.cycles = 0
	sch.seq = 0
	sch.queue = sch.queue[:0]
}

// Cycles returns the current value of the system clock.
func (sch *Scheduler) Cycles() uint64 {
	return sch.cycles
}

// Advance moves the system clock forward by the given number of cycles. No
// events fire as a result, that happens on the next call to ProcessDue().
func (sch *Scheduler) Advance(n uint64) {
	sch.cycles += n
}

// Schedule registers an event to fire delay cycles from now. The returned
// Event can be passed to Cancel().
//
// A delay of zero would mean a trigger cycle at or before the current
// clock. Such an event is clamped to fire on the next cycle, meaning a
// handler that reschedules itself can never fire twice in the same
// ProcessDue() sweep.
func (sch *Scheduler) Schedule(id EventID, data uint64, delay uint64) *Event {
	if delay == 0 {
		delay = 1
		if !sch.clampWarned[id] {
			sch.clampWarned[id] = true
			logger.Logf(logger.Allow, "scheduler", "%s scheduled in the past. clamped to next cycle", id)
		}
	}

	ev := &Event{
		id:      id,
		data:    data,
		trigger: sch.cycles + delay,
		seq:     sch.seq,
		active:  true,
	}
	sch.seq++
	heap.Push(&sch.queue, ev)
	return ev
}

// Cancel marks the event inactive. The entry is removed from the queue
// lazily, when it reaches the front. Cancelling an event that has already
// fired, or a nil event, is a no-op.
func (sch *Scheduler) Cancel(ev *Event) {
	if ev != nil {
		ev.active = false
	}
}

// NextEventAt returns the cycle at which the earliest pending event will
// fire. If there are no pending events the maximum cycle value is returned.
func (sch *Scheduler) NextEventAt() uint64 {
	for len(sch.queue) > 0 {
		if sch.queue[0].active {
			return sch.queue[0].trigger
		}
		heap.Pop(&sch.queue)
	}
	return ^uint64(0)
}

// NextEventIn returns the number of cycles until the earliest pending
// event.
func (sch *Scheduler) NextEventIn() uint64 {
	at := sch.NextEventAt()
	if at <= sch.cycles {
		return 0
	}
	return at - sch.cycles
}

// ProcessDue fires every event whose trigger cycle has been reached, in
// trigger order. Handlers are free to schedule new events but a new event
// always fires on a later sweep.
func (sch *Scheduler) ProcessDue() {
	for len(sch.queue) > 0 {
		ev := sch.queue[0]
		if !ev.active {
			heap.Pop(&sch.queue)
			continue
		}
		if ev.trigger > sch.cycles {
			break
		}
		heap.Pop(&sch.queue)
		ev.active = false
		sch.dispatch(ev.id, ev.data)
	}
}

// RunFor runs the scheduler for the given number of cycles. Between events
// the run function is called with the cycle of the next event (or the end
// of the budget, whichever is sooner). The run function must advance the
// clock, with Advance(), by at least one cycle.
func (sch *Scheduler) RunFor(budget uint64, run func(target uint64)) {
	target := sch.cycles + budget
	for sch.cycles < target {
		next := sch.NextEventAt()
		if next > target {
			next = target
		}
		if sch.cycles < next {
			run(next)
		}
		sch.ProcessDue()
	}
}

// Normalize subtracts the current clock value from the clock and from every
// pending trigger, preventing the counters from ever overflowing. Returns
// the amount subtracted so that subsystems holding absolute cycle stamps
// can adjust them.
func (sch *Scheduler) Normalize() uint64 {
	base := sch.cycles
	for _, ev := range sch.queue {
		if ev.trigger < base {
			ev.trigger = 0
		} else {
			ev.trigger -= base
		}
	}
	sch.cycles = 0
	return base
}

// Dump returns the pending events in a serialisable form. Used by the
// quicksave file.
func (sch *Scheduler) Dump() []EventState {
	// copy and re-sort so the dump is in firing order
	evs := make([]*Event, len(sch.queue))
	copy(evs, sch.queue)
	for i := range evs {
		for j := i + 1; j < len(evs); j++ {
			if evs[j].trigger < evs[i].trigger ||
				(evs[j].trigger == evs[i].trigger && evs[j].seq < evs[i].seq) {
				evs[i], evs[j] = evs[j], evs[i]
			}
		}
	}

	dump := make([]EventState, 0, len(evs))
	for _, ev := range evs {
		if !ev.active {
			continue
		}
		dump = append(dump, EventState{
			ID:        ev.id,
			Data:      ev.data,
			Remaining: ev.trigger - sch.cycles,
		})
	}
	return dump
}

// Restore replaces the pending events with the previously dumped set.
func (sch *Scheduler) Restore(dump []EventState) {
	sch.queue = sch.queue[:0]
	for _, es := range dump {
		sch.Schedule(es.ID, es.Data, es.Remaining)
	}
}
