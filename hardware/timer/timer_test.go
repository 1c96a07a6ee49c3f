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

package timer_test

import (
	"testing"

	"github.com/seliware/gopheradvance/hardware/irq"
	"github.com/seliware/gopheradvance/hardware/scheduler"
	"github.com/seliware/gopheradvance/hardware/timer"
	"github.com/seliware/gopheradvance/test"
)

// harness wires a scheduler, interrupt controller and timer block the
// way the hardware package does.
type harness struct {
	sch *scheduler.Scheduler
	ic  *irq.IRQ
	tm  *timer.Timers
}

func newHarness() *harness {
	h := &harness{}
	h.sch = scheduler.New(func(id scheduler.EventID, data uint64) {
		switch id {
		case scheduler.EventTimerOverflow0, scheduler.EventTimerOverflow1,
			scheduler.EventTimerOverflow2, scheduler.EventTimerOverflow3:
			h.tm.Overflow(int(data))
		}
	})
	h.ic = irq.NewIRQ(nil)
	h.tm = timer.NewTimers(h.sch, h.ic, nil)
	return h
}

func (h *harness) runFor(cycles uint64) {
	h.sch.RunFor(cycles, func(target uint64) {
		h.sch.Advance(target - h.sch.Cycles())
	})
}

func TestCounterDerivesFromClock(t *testing.T) {
	h := newHarness()

	h.tm.SetReload(0, 0x1000, 0xffff)
	h.tm.SetControl(0, 0x0080, 0xffff) // enable, prescaler 1

	test.Equate(t, h.tm.Counter(0), 0x1000)

	h.runFor(0x100)
	test.Equate(t, h.tm.Counter(0), 0x1100)
}

func TestPrescaler(t *testing.T) {
	h := newHarness()

	h.tm.SetReload(1, 0, 0xffff)
	h.tm.SetControl(1, 0x0081, 0xffff) // enable, prescaler 64

	h.runFor(640)
	test.Equate(t, h.tm.Counter(1), 10)
}

func TestOverflowReloadsAndRaisesIRQ(t *testing.T) {
	h := newHarness()

	h.tm.SetReload(0, 0xfff0, 0xffff)
	h.tm.SetControl(0, 0x00c0, 0xffff) // enable, IRQ enable

	h.runFor(0x10)
	test.Equate(t, h.ic.Flags()&uint16(irq.Timer0), uint16(irq.Timer0))

	// counter resumed from the reload value
	test.Equate(t, h.tm.Counter(0), 0xfff0)
}

// the cascade scenario: timer 0 reloads at 0xfffe with prescaler 1,
// timer 1 cascades. after four timer 0 overflows timer 1 reads 4 and
// the timer 0 overflow IRQ is latched.
func TestCascade(t *testing.T) {
	h := newHarness()

	h.tm.SetReload(0, 0xfffe, 0xffff)
	h.tm.SetReload(1, 0, 0xffff)
	h.tm.SetControl(1, 0x0084, 0xffff) // enable, cascade
	h.tm.SetControl(0, 0x00c0, 0xffff) // enable, IRQ enable

	// timer 0 overflows every 2 cycles. after 4 cycles it has
	// overflowed twice
	h.runFor(4)
	test.Equate(t, h.tm.Counter(1), 2)

	h.runFor(4)
	test.Equate(t, h.tm.Counter(1), 4)

	test.Equate(t, h.ic.Flags()&uint16(irq.Timer0), uint16(irq.Timer0))
}

func TestCascadedChainOverflow(t *testing.T) {
	h := newHarness()

	// timer 1 cascades and is one tick from overflow; its overflow must
	// ripple into timer 2
	h.tm.SetReload(1, 0xffff, 0xffff)
	h.tm.SetControl(1, 0x0084, 0xffff)
	h.tm.SetReload(2, 0, 0xffff)
	h.tm.SetControl(2, 0x0084, 0xffff)

	h.tm.SetReload(0, 0xffff, 0xffff)
	h.tm.SetControl(0, 0x0080, 0xffff)

	// every timer 0 overflow rolls timer 1 over, which ticks timer 2
	h.runFor(1)
	test.Equate(t, h.tm.Counter(1), 0xffff)
	test.Equate(t, h.tm.Counter(2), 1)

	h.runFor(1)
	test.Equate(t, h.tm.Counter(1), 0xffff)
	test.Equate(t, h.tm.Counter(2), 2)
}

func TestDisableLatchesCounter(t *testing.T) {
	h := newHarness()

	h.tm.SetReload(3, 0, 0xffff)
	h.tm.SetControl(3, 0x0080, 0xffff)
	h.runFor(100)

	h.tm.SetControl(3, 0x0000, 0xffff)
	test.Equate(t, h.tm.Counter(3), 100)

	// no further counting while disabled
	h.runFor(100)
	test.Equate(t, h.tm.Counter(3), 100)

	// re-enabling reloads
	h.tm.SetControl(3, 0x0080, 0xffff)
	test.Equate(t, h.tm.Counter(3), 0)
}

func TestReloadIsLatchedUntilOverflow(t *testing.T) {
	h := newHarness()

	h.tm.SetReload(0, 0xff00, 0xffff)
	h.tm.SetControl(0, 0x0080, 0xffff)

	// changing the reload mid-period does not disturb the counter
	h.tm.SetReload(0, 0x8000, 0xffff)
	h.runFor(0x10)
	test.Equate(t, h.tm.Counter(0), 0xff10)

	// after the overflow the new reload is in effect
	h.runFor(0x100)
	if h.tm.Counter(0) < 0x8000 || h.tm.Counter(0) > 0x8100 {
		t.Errorf("counter did not resume from new reload: %04x", h.tm.Counter(0))
	}
}
