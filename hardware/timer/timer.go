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

// Package timer implements the four 16 bit hardware timers. A running
// timer does not tick cycle by cycle; its next overflow is computed and
// registered with the scheduler, and the counter value is derived from
// the clock when software reads it.
package timer

import (
	"github.com/seliware/gopheradvance/hardware/irq"
	"github.com/seliware/gopheradvance/hardware/scheduler"
	"github.com/seliware/gopheradvance/statefile"
)

// FIFOTicker is notified of timer overflows so that the APU can clock
// its direct sound FIFOs. Timers 0 and 1 only.
type FIFOTicker interface {
	OnTimerOverflow(timer int)
}

// control register bits.
const (
	ctrlCascade = 0x0004
	ctrlIRQ     = 0x0040
	ctrlEnable  = 0x0080
)

var prescalers = [4]uint64{1, 64, 256, 1024}

var overflowEvents = [4]scheduler.EventID{
	scheduler.EventTimerOverflow0,
	scheduler.EventTimerOverflow1,
	scheduler.EventTimerOverflow2,
	scheduler.EventTimerOverflow3,
}

var overflowIRQs = [4]irq.Flag{
	irq.Timer0,
	irq.Timer1,
	irq.Timer2,
	irq.Timer3,
}

type channel struct {
	reload  uint16
	control uint16

	// counter value, valid while the timer is stopped or cascading.
	// a free running timer derives its counter from the clock instead
	counter uint16

	// clock cycle at which counter began counting
	start uint64

	event *scheduler.Event
}

// Timers is the block of four timers.
type Timers struct {
	sch  *scheduler.Scheduler
	irq  *irq.IRQ
	fifo FIFOTicker

	ch [4]channel
}

// NewTimers is the preferred method of initialisation for the Timers
// type.
func NewTimers(sch *scheduler.Scheduler, ic *irq.IRQ, fifo FIFOTicker) *Timers {
	return &Timers{sch: sch, irq: ic, fifo: fifo}
}

// Reset stops all four timers.
func (tm *Timers) Reset() {
	for i := range tm.ch {
		tm.sch.Cancel(tm.ch[i].event)
		tm.ch[i] = channel{}
	}
}

func (ch *channel) prescaler() uint64 {
	return prescalers[ch.control&0x3]
}

func (ch *channel) enabled() bool {
	return ch.control&ctrlEnable != 0
}

func (ch *channel) cascading() bool {
	return ch.control&ctrlCascade != 0
}

// free running is enabled and not cascading
func (ch *channel) freeRunning() bool {
	return ch.enabled() && !ch.cascading()
}

// Counter returns the current value of a timer's counter, deriving it
// from the system clock for a free running timer.
func (tm *Timers) Counter(i int) uint16 {
	ch := &tm.ch[i]
	if !ch.freeRunning() {
		return ch.counter
	}
	elapsed := (tm.sch.Cycles() - ch.start) / ch.prescaler()
	return ch.counter + uint16(elapsed)
}

// Control returns the control register of a timer.
func (tm *Timers) Control(i int) uint16 {
	return tm.ch[i].control
}

// SetReload writes a timer's reload register. The value is latched; it
// takes effect at the next overflow or enable.
func (tm *Timers) SetReload(i int, data uint16, mask uint16) {
	tm.ch[i].reload = (tm.ch[i].reload &^ mask) | (data & mask)
}

// SetControl writes a timer's control register. An enable edge loads
// the counter from the reload latch and schedules the overflow.
func (tm *Timers) SetControl(i int, data uint16, mask uint16) {
	ch := &tm.ch[i]
	wasEnabled := ch.enabled()

	// the counter as it stands under the old control value
	latched := tm.counterAtStop(i)

	// timer 0 has nothing to cascade from so its cascade bit is masked
	// away entirely
	valid := uint16(0x00c7)
	if i == 0 {
		valid = 0x00c3
	}
	ch.control = (ch.control &^ mask) | (data & mask & valid)

	if ch.enabled() && !wasEnabled {
		ch.counter = ch.reload
		ch.start = tm.sch.Cycles()
		tm.schedule(i)
	} else if !ch.enabled() && wasEnabled {
		// latch the counter before stopping
		ch.counter = latched
		tm.sch.Cancel(ch.event)
		ch.event = nil
	} else if ch.enabled() {
		// a control rewrite while running can change the prescaler or
		// the cascade bit. restart the period from the current counter
		ch.counter = latched
		ch.start = tm.sch.Cycles()
		tm.schedule(i)
	}
}

func (tm *Timers) counterAtStop(i int) uint16 {
	ch := &tm.ch[i]
	if !ch.freeRunning() {
		return ch.counter
	}
	elapsed := (tm.sch.Cycles() - ch.start) / ch.prescaler()
	return ch.counter + uint16(elapsed)
}

// schedule registers the next overflow of a free running timer.
func (tm *Timers) schedule(i int) {
	ch := &tm.ch[i]
	tm.sch.Cancel(ch.event)
	ch.event = nil

	if ch.cascading() {
		return
	}

	remaining := (0x10000 - uint64(ch.counter)) * ch.prescaler()
	ch.event = tm.sch.Schedule(overflowEvents[i], uint64(i), remaining)
}

// Overflow services a timer overflow event. Called by the hardware
// dispatch table.
func (tm *Timers) Overflow(i int) {
	ch := &tm.ch[i]
	if !ch.enabled() {
		return
	}

	ch.counter = ch.reload
	ch.start = tm.sch.Cycles()
	tm.schedule(i)

	tm.overflowEffects(i)
}

// overflowEffects raises the IRQ, clocks the sound FIFOs and ticks any
// cascaded successor. Shared by scheduled overflows and cascade
// overflows.
func (tm *Timers) overflowEffects(i int) {
	ch := &tm.ch[i]

	if ch.control&ctrlIRQ != 0 {
		tm.irq.Raise(overflowIRQs[i])
	}

	if i < 2 && tm.fifo != nil {
		tm.fifo.OnTimerOverflow(i)
	}

	// tick the next timer if it counts up on our overflow
	if i < 3 {
		next := &tm.ch[i+1]
		if next.enabled() && next.cascading() {
			next.counter++
			if next.counter == 0 {
				next.counter = next.reload
				tm.overflowEffects(i + 1)
			}
		}
	}
}

// Normalize adjusts the absolute cycle stamps after the scheduler clock
// has been rebased.
func (tm *Timers) Normalize(base uint64) {
	for i := range tm.ch {
		if tm.ch[i].start >= base {
			tm.ch[i].start -= base
		} else {
			tm.ch[i].start = 0
		}
	}
}

// SaveState serialises the timer block. The scheduler's own events are
// saved separately and come back with the scheduler queue on load.
func (tm *Timers) SaveState(w *statefile.Writer) {
	for i := range tm.ch {
		w.WriteUint16(tm.ch[i].reload)
		w.WriteUint16(tm.ch[i].control)
		w.WriteUint16(tm.counterAtStop(i))
	}
}

// LoadState restores the timer block. The overflow events themselves
// are restored with the scheduler queue, not here.
func (tm *Timers) LoadState(r *statefile.Reader) error {
	for i := range tm.ch {
		tm.sch.Cancel(tm.ch[i].event)
		tm.ch[i].event = nil

		tm.ch[i].reload = r.ReadUint16()
		tm.ch[i].control = r.ReadUint16()
		tm.ch[i].counter = r.ReadUint16()
		tm.ch[i].start = tm.sch.Cycles()
	}
	return r.Err()
}
