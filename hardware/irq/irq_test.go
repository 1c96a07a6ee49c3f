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

package irq_test

import (
	"testing"

	"github.com/seliware/gopheradvance/hardware/irq"
	"github.com/seliware/gopheradvance/test"
)

type wakeCounter struct {
	count int
}

func (w *wakeCounter) Wake() {
	w.count++
}

func TestPendingRequiresEnable(t *testing.T) {
	w := &wakeCounter{}
	ic := irq.NewIRQ(w)

	ic.Raise(irq.VBlank)
	test.Equate(t, ic.Pending(), false)
	test.Equate(t, w.count, 0)

	ic.SetEnable(uint16(irq.VBlank), 0xffff)
	test.Equate(t, ic.Pending(), true)

	// enabling an already latched interrupt wakes the CPU
	test.Equate(t, w.count, 1)
}

func TestRaiseWakesWhenEnabled(t *testing.T) {
	w := &wakeCounter{}
	ic := irq.NewIRQ(w)

	ic.SetEnable(uint16(irq.Timer0), 0xffff)
	ic.Raise(irq.Timer0)
	test.Equate(t, w.count, 1)

	// pending is independent of IME
	test.Equate(t, ic.Pending(), true)
	test.Equate(t, ic.Master(), false)
}

func TestAcknowledgeIsWriteOneToClear(t *testing.T) {
	ic := irq.NewIRQ(nil)

	ic.Raise(irq.Timer0)
	ic.Raise(irq.DMA3)
	test.Equate(t, ic.Flags(), uint16(irq.Timer0)|uint16(irq.DMA3))

	ic.Acknowledge(uint16(irq.Timer0), 0xffff)
	test.Equate(t, ic.Flags(), uint16(irq.DMA3))

	// writing zero bits clears nothing
	ic.Acknowledge(0, 0xffff)
	test.Equate(t, ic.Flags(), uint16(irq.DMA3))
}

func TestMasterEnable(t *testing.T) {
	ic := irq.NewIRQ(nil)

	test.Equate(t, ic.MasterEnable(), uint16(0))
	ic.SetMasterEnable(1, 0xffff)
	test.Equate(t, ic.Master(), true)
	ic.SetMasterEnable(0, 0xffff)
	test.Equate(t, ic.Master(), false)
}
