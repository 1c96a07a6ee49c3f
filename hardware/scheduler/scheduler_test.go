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

package scheduler_test

import (
	"testing"

	"github.com/seliware/gopheradvance/hardware/scheduler"
	"github.com/seliware/gopheradvance/test"
)

func TestEventOrdering(t *testing.T) {
	var fired []scheduler.EventID

	sch := scheduler.New(func(id scheduler.EventID, _ uint64) {
		fired = append(fired, id)
	})

	sch.Schedule(scheduler.EventLineEnd, 0, 30)
	sch.Schedule(scheduler.EventHBlankStart, 0, 10)
	sch.Schedule(scheduler.EventApuSample, 0, 20)

	sch.Advance(30)
	sch.ProcessDue()

	test.Equate(t, len(fired), 3)
	test.Equate(t, int(fired[0]), int(scheduler.EventHBlankStart))
	test.Equate(t, int(fired[1]), int(scheduler.EventApuSample))
	test.Equate(t, int(fired[2]), int(scheduler.EventLineEnd))
}

func TestTieBreakIsInsertionOrder(t *testing.T) {
	var fired []uint64

	sch := scheduler.New(func(_ scheduler.EventID, data uint64) {
		fired = append(fired, data)
	})

	for i := uint64(0); i < 8; i++ {
		sch.Schedule(scheduler.EventApuSample, i, 100)
	}

	sch.Advance(100)
	sch.ProcessDue()

	test.Equate(t, len(fired), 8)
	for i := uint64(0); i < 8; i++ {
		test.Equate(t, fired[i], i)
	}
}

func TestCancel(t *testing.T) {
	var fired int

	sch := scheduler.New(func(_ scheduler.EventID, _ uint64) {
		fired++
	})

	ev := sch.Schedule(scheduler.EventHBlankStart, 0, 10)
	sch.Schedule(scheduler.EventLineEnd, 0, 10)
	sch.Cancel(ev)

	sch.Advance(10)
	sch.ProcessDue()

	test.Equate(t, fired, 1)
}

func TestRunForAdvancesExactly(t *testing.T) {
	sch := scheduler.New(func(_ scheduler.EventID, _ uint64) {})

	sch.Schedule(scheduler.EventHBlankStart, 0, 500)

	sch.RunFor(1000, func(target uint64) {
		// advance one cycle at a time, like a CPU that only executes
		// single cycle instructions
		for sch.Cycles() < target {
			sch.Advance(1)
		}
	})

	test.Equate(t, sch.Cycles(), uint64(1000))
}

func TestRescheduleCannotFireInSameSweep(t *testing.T) {
	var fired int

	var sch *scheduler.Scheduler
	sch = scheduler.New(func(id scheduler.EventID, _ uint64) {
		fired++
		if fired == 1 {
			// rescheduling with a zero delay must clamp to the next cycle
			// rather than firing during this sweep
			sch.Schedule(id, 0, 0)
		}
	})

	sch.Schedule(scheduler.EventApuSample, 0, 5)
	sch.Advance(5)
	sch.ProcessDue()
	test.Equate(t, fired, 1)

	sch.Advance(1)
	sch.ProcessDue()
	test.Equate(t, fired, 2)
}

func TestNextEventIn(t *testing.T) {
	sch := scheduler.New(func(_ scheduler.EventID, _ uint64) {})

	sch.Schedule(scheduler.EventLineEnd, 0, 1232)
	test.Equate(t, sch.NextEventIn(), uint64(1232))

	sch.Advance(1000)
	test.Equate(t, sch.NextEventIn(), uint64(232))
}

func TestNormalize(t *testing.T) {
	var fired int

	sch := scheduler.New(func(_ scheduler.EventID, _ uint64) {
		fired++
	})

	sch.Advance(100000)
	sch.Schedule(scheduler.EventHBlankStart, 0, 50)

	base := sch.Normalize()
	test.Equate(t, base, uint64(100000))
	test.Equate(t, sch.Cycles(), uint64(0))
	test.Equate(t, sch.NextEventIn(), uint64(50))

	sch.Advance(50)
	sch.ProcessDue()
	test.Equate(t, fired, 1)
}

func TestDumpRestore(t *testing.T) {
	var fired []scheduler.EventID

	sch := scheduler.New(func(id scheduler.EventID, _ uint64) {
		fired = append(fired, id)
	})

	sch.Schedule(scheduler.EventLineEnd, 0, 400)
	sch.Schedule(scheduler.EventHBlankStart, 0, 300)

	dump := sch.Dump()
	test.Equate(t, len(dump), 2)
	test.Equate(t, int(dump[0].ID), int(scheduler.EventHBlankStart))
	test.Equate(t, dump[0].Remaining, uint64(300))
	test.Equate(t, int(dump[1].ID), int(scheduler.EventLineEnd))

	sch2 := scheduler.New(func(id scheduler.EventID, _ uint64) {
		fired = append(fired, id)
	})
	sch2.Restore(dump)

	sch2.Advance(400)
	sch2.ProcessDue()
	test.Equate(t, len(fired), 2)
	test.Equate(t, int(fired[0]), int(scheduler.EventHBlankStart))
	test.Equate(t, int(fired[1]), int(scheduler.EventLineEnd))
}
