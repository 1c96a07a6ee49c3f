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

package apu

import (
	"testing"

	"github.com/seliware/gopheradvance/display"
	"github.com/seliware/gopheradvance/hardware/scheduler"
	"github.com/seliware/gopheradvance/test"
)

type fifoRecorder struct {
	addrs []uint32
}

func (f *fifoRecorder) OnFIFO(addr uint32) {
	f.addrs = append(f.addrs, addr)
}

func newAPU() (*APU, *scheduler.Scheduler, *fifoRecorder) {
	rec := &fifoRecorder{}
	var ap *APU
	sch := scheduler.New(func(id scheduler.EventID, _ uint64) {
		switch id {
		case scheduler.EventApuSample:
			ap.Sample()
		case scheduler.EventApuLength:
			ap.LengthTick()
		case scheduler.EventApuEnvelope:
			ap.EnvelopeTick()
		case scheduler.EventApuSweep:
			ap.SweepTick()
		}
	})
	ap = NewAPU(sch, rec)
	ap.Reset()
	return ap, sch, rec
}

func TestRing(t *testing.T) {
	r := NewRing(4)

	r.Push(display.Sample{Left: 1})
	r.Push(display.Sample{Left: 2})
	test.Equate(t, r.Len(), 2)

	dst := make([]display.Sample, 8)
	n := r.Pop(dst)
	test.Equate(t, n, 2)
	test.Equate(t, int(dst[0].Left), 1)
	test.Equate(t, int(dst[1].Left), 2)
	test.Equate(t, r.Len(), 0)
}

func TestRingDropsWhenFull(t *testing.T) {
	r := NewRing(4)

	for i := 0; i < 6; i++ {
		r.Push(display.Sample{Left: int16(i)})
	}
	test.Equate(t, r.Len(), 4)

	dst := make([]display.Sample, 8)
	n := r.Pop(dst)
	test.Equate(t, n, 4)
	test.Equate(t, int(dst[0].Left), 0)
	test.Equate(t, int(dst[3].Left), 3)
}

func TestSamplesAccumulate(t *testing.T) {
	ap, sch, _ := newAPU()

	// run a frame's worth of cycles; at 48kHz that is roughly 800
	// samples
	sch.RunFor(280896, func(target uint64) {
		sch.Advance(target - sch.Cycles())
	})

	got := ap.Ring().Len()
	if got < 700 || got > 900 {
		t.Errorf("unexpected sample count for one frame: %d", got)
	}
}

func TestSquareChannelProducesSound(t *testing.T) {
	ap, sch, _ := newAPU()

	// master on, channel 1 left+right at full volume
	ap.WriteRegister(regSoundCntX, 0x0080, 0xffff)
	ap.WriteRegister(regSoundCntL, 0x1177, 0xffff)

	// duty 50%, full initial volume, no envelope
	ap.WriteRegister(regSound1CntH, 0xf080, 0xffff)
	// frequency and trigger
	ap.WriteRegister(regSound1CntX, 0x8400, 0xffff)

	sch.RunFor(280896, func(target uint64) {
		sch.Advance(target - sch.Cycles())
	})

	dst := make([]display.Sample, 4096)
	n := ap.Ring().Pop(dst)

	var nonZero int
	for i := 0; i < n; i++ {
		if dst[i].Left != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Errorf("square channel produced only silence")
	}
}

func TestMasterOffIsSilence(t *testing.T) {
	ap, sch, _ := newAPU()

	// writes while the master is off are dropped
	ap.WriteRegister(regSound1CntH, 0xf080, 0xffff)
	ap.WriteRegister(regSound1CntX, 0x8400, 0xffff)

	sch.RunFor(100000, func(target uint64) {
		sch.Advance(target - sch.Cycles())
	})

	dst := make([]display.Sample, 4096)
	n := ap.Ring().Pop(dst)
	for i := 0; i < n; i++ {
		if dst[i].Left != 0 || dst[i].Right != 0 {
			t.Fatalf("expected silence with master enable off")
		}
	}
}

func TestFIFODrainTriggersDMA(t *testing.T) {
	ap, _, rec := newAPU()

	ap.WriteRegister(regSoundCntX, 0x0080, 0xffff)
	// enable direct sound A on both sides, timer 0
	ap.WriteRegister(regSoundCntH, 0x0300, 0xffff)

	// fill the FIFO with 20 bytes
	for i := 0; i < 10; i++ {
		ap.WriteRegister(regFIFOA, 0x1122, 0xffff)
	}

	// drain to the half-full mark
	for i := 0; i < 4; i++ {
		ap.OnTimerOverflow(0)
	}
	test.Equate(t, len(rec.addrs), 1)
	test.Equate(t, rec.addrs[0], uint32(0x040000a0))
}

func TestLengthCounterSilencesChannel(t *testing.T) {
	ap, sch, _ := newAPU()

	ap.WriteRegister(regSoundCntX, 0x0080, 0xffff)
	ap.WriteRegister(regSoundCntL, 0x1111, 0xffff)

	// length 62 of 64, length enable, trigger
	ap.WriteRegister(regSound1CntH, 0xf03e, 0xffff)
	ap.WriteRegister(regSound1CntX, 0xc400, 0xffff)

	test.Equate(t, ap.ReadRegister(regSoundCntX)&0x1, uint16(1))

	// two 256Hz ticks: (64-62) steps
	sch.RunFor(2*lengthPeriod+10, func(target uint64) {
		sch.Advance(target - sch.Cycles())
	})

	test.Equate(t, ap.ReadRegister(regSoundCntX)&0x1, uint16(0))
}