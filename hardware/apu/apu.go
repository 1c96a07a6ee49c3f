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

// Package apu implements the GBA sound unit: the four PSG channels and
// the two DMA driven PCM FIFOs. Output is resampled at a configurable
// rate; each sample event mixes the channels per SOUNDCNT and pushes
// one stereo sample into a ring buffer drained by the host audio sink.
package apu

import (
	"github.com/seliware/gopheradvance/display"
	"github.com/seliware/gopheradvance/hardware/scheduler"
	"github.com/seliware/gopheradvance/statefile"
)

// the system clock rate, from which sample periods are derived.
const clockRate = 16777216

// sequencer tick rates in cycles.
const (
	lengthPeriod   = clockRate / 256
	envelopePeriod = clockRate / 64
	sweepPeriod    = clockRate / 128
)

// DefaultResampleFreq is the sample rate until the front-end chooses
// one.
const DefaultResampleFreq = 48000

// FIFODrainer is the view of the DMA controller the APU needs: when a
// FIFO runs half empty the matching sound DMA refills it.
type FIFODrainer interface {
	OnFIFO(fifoAddr uint32)
}

// the two direct sound FIFO register addresses, used to match DMA
// channels to FIFOs.
const (
	fifoAAddr = 0x040000a0
	fifoBAddr = 0x040000a4
)

type fifo struct {
	buf  [32]int8
	head int
	len  int

	// the sample currently latched on the DAC
	current int8

	timerSelect int
}

func (f *fifo) push(b int8) {
	if f.len == 32 {
		return
	}
	f.buf[(f.head+f.len)&31] = b
	f.len++
}

func (f *fifo) pop() {
	if f.len == 0 {
		f.current = 0
		return
	}
	f.current = f.buf[f.head]
	f.head = (f.head + 1) & 31
	f.len--
}

func (f *fifo) reset() {
	*f = fifo{timerSelect: f.timerSelect}
}

// APU is the sound unit.
type APU struct {
	sch *scheduler.Scheduler
	dma FIFODrainer

	ch1 square
	ch2 square
	ch3 wave
	ch4 noise

	fifoA fifo
	fifoB fifo

	soundcntL uint16
	soundcntH uint16
	masterOn  bool
	soundbias uint16

	resampleFreq uint32

	ring *Ring

	// cycle stamp of the previous sample, for running the channel
	// timers forward
	lastSample uint64
}

// NewAPU is the preferred method of initialisation for the APU type.
func NewAPU(sch *scheduler.Scheduler, dma FIFODrainer) *APU {
	return &APU{
		sch:          sch,
		dma:          dma,
		resampleFreq: DefaultResampleFreq,
		ring:         NewRing(8192),
		soundbias:    0x0200,
	}
}

// Ring returns the sample queue consumed by the audio sink.
func (ap *APU) Ring() *Ring {
	return ap.ring
}

// SetResampleFreq changes the output sample rate. Takes effect at the
// next sample event.
func (ap *APU) SetResampleFreq(hz uint32) {
	if hz >= 4000 && hz <= 192000 {
		ap.resampleFreq = hz
	}
}

// ResampleFreq returns the current output sample rate.
func (ap *APU) ResampleFreq() uint32 {
	return ap.resampleFreq
}

// Reset silences everything and schedules the sequencer events. Must be
// called after the scheduler's own reset.
func (ap *APU) Reset() {
	ap.ch1 = square{}
	ap.ch2 = square{}
	ap.ch3 = wave{}
	ap.ch4 = noise{}
	ap.fifoA.reset()
	ap.fifoB.reset()
	ap.soundcntL = 0
	ap.soundcntH = 0
	ap.masterOn = false
	ap.soundbias = 0x0200
	ap.lastSample = 0

	ap.sch.Schedule(scheduler.EventApuSample, 0, ap.samplePeriod())
	ap.sch.Schedule(scheduler.EventApuLength, 0, lengthPeriod)
	ap.sch.Schedule(scheduler.EventApuEnvelope, 0, envelopePeriod)
	ap.sch.Schedule(scheduler.EventApuSweep, 0, sweepPeriod)
}

func (ap *APU) samplePeriod() uint64 {
	return uint64(clockRate / ap.resampleFreq)
}

// OnTimerOverflow clocks the FIFOs that listen to the overflowing
// timer. When a FIFO drops to half full the matching sound DMA is
// asked to top it up.
func (ap *APU) OnTimerOverflow(timer int) {
	if !ap.masterOn {
		return
	}

	// a FIFO routed to neither output is not clocked
	if ap.fifoA.timerSelect == timer && ap.soundcntH&0x0300 != 0 {
		ap.fifoA.pop()
		if ap.fifoA.len <= 16 {
			ap.dma.OnFIFO(fifoAAddr)
		}
	}
	if ap.fifoB.timerSelect == timer && ap.soundcntH&0x3000 != 0 {
		ap.fifoB.pop()
		if ap.fifoB.len <= 16 {
			ap.dma.OnFIFO(fifoBAddr)
		}
	}
}

// Sample services the sample event: mix one stereo sample and push it
// to the ring. Called by the hardware dispatch table.
func (ap *APU) Sample() {
	now := ap.sch.Cycles()
	elapsed := int32(now - ap.lastSample)
	ap.lastSample = now

	var left, right int32

	if ap.masterOn {
		s1 := int32(ap.ch1.output(elapsed))
		s2 := int32(ap.ch2.output(elapsed))
		s3 := int32(ap.ch3.output(elapsed))
		s4 := int32(ap.ch4.output(elapsed))

		// SOUNDCNT_L: master volume and panning for the PSG four
		volL := int32(ap.soundcntL>>4) & 0x7
		volR := int32(ap.soundcntL) & 0x7

		var psgL, psgR int32
		for i, s := range [4]int32{s1, s2, s3, s4} {
			if ap.soundcntL&(0x1000<<uint(i)) != 0 {
				psgL += s
			}
			if ap.soundcntL&(0x0100<<uint(i)) != 0 {
				psgR += s
			}
		}
		psgL = psgL * (volL + 1) / 8
		psgR = psgR * (volR + 1) / 8

		// SOUNDCNT_H: PSG mix volume 25/50/100%
		switch ap.soundcntH & 0x3 {
		case 0:
			psgL /= 4
			psgR /= 4
		case 1:
			psgL /= 2
			psgR /= 2
		}

		// each PSG channel peaks at 15; four channels at full volume
		// are scaled into roughly a quarter of the int16 range
		left = psgL * 128
		right = psgR * 128

		// direct sound. an 8 bit sample scaled to half or full range
		a := int32(ap.fifoA.current) * 4
		if ap.soundcntH&0x0004 == 0 {
			a /= 2
		}
		b := int32(ap.fifoB.current) * 4
		if ap.soundcntH&0x0008 == 0 {
			b /= 2
		}

		if ap.soundcntH&0x0200 != 0 {
			left += a * 32
		}
		if ap.soundcntH&0x0100 != 0 {
			right += a * 32
		}
		if ap.soundcntH&0x2000 != 0 {
			left += b * 32
		}
		if ap.soundcntH&0x1000 != 0 {
			right += b * 32
		}
	}

	left = clamp16(left)
	right = clamp16(right)

	ap.ring.Push(display.Sample{Left: int16(left), Right: int16(right)})

	ap.sch.Schedule(scheduler.EventApuSample, 0, ap.samplePeriod())
}

func clamp16(v int32) int32 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

// LengthTick services the 256Hz length event.
func (ap *APU) LengthTick() {
	ap.ch1.tickLength()
	ap.ch2.tickLength()
	ap.ch3.tickLength()
	ap.ch4.tickLength()
	ap.sch.Schedule(scheduler.EventApuLength, 0, lengthPeriod)
}

// EnvelopeTick services the 64Hz envelope event.
func (ap *APU) EnvelopeTick() {
	ap.ch1.tickEnvelope()
	ap.ch2.tickEnvelope()
	ap.ch4.tickEnvelope()
	ap.sch.Schedule(scheduler.EventApuEnvelope, 0, envelopePeriod)
}

// SweepTick services the 128Hz sweep event.
func (ap *APU) SweepTick() {
	ap.ch1.tickSweep()
	ap.sch.Schedule(scheduler.EventApuSweep, 0, sweepPeriod)
}

// SaveState serialises the APU. The ring buffer contents are not state;
// the sink drains whatever is there.
func (ap *APU) SaveState(w *statefile.Writer) {
	w.WriteUint16(ap.soundcntL)
	w.WriteUint16(ap.soundcntH)
	w.WriteBool(ap.masterOn)
	w.WriteUint16(ap.soundbias)
	w.WriteUint32(ap.resampleFreq)

	for _, ch := range []*square{&ap.ch1, &ap.ch2} {
		w.WriteBool(ch.enabled)
		w.WriteUint8(ch.duty)
		w.WriteUint16(ch.freq)
		w.WriteUint8(ch.step)
		w.WriteInt32(ch.timer)
		w.WriteUint8(ch.volume)
		w.WriteUint8(ch.envInit)
		w.WriteBool(ch.envUp)
		w.WriteUint8(ch.envPeriod)
		w.WriteUint8(ch.envCounter)
		w.WriteUint8(ch.length)
		w.WriteBool(ch.lengthEnable)
		w.WriteUint8(ch.sweepPeriod)
		w.WriteBool(ch.sweepDown)
		w.WriteUint8(ch.sweepShift)
		w.WriteUint8(ch.sweepCounter)
	}

	w.WriteBool(ap.ch3.enabled)
	w.WriteBool(ap.ch3.playing)
	w.WriteBool(ap.ch3.twoBanks)
	w.WriteUint8(ap.ch3.bank)
	w.WriteUint16(ap.ch3.freq)
	w.WriteUint8(ap.ch3.pos)
	w.WriteInt32(ap.ch3.timer)
	w.WriteUint8(ap.ch3.volume)
	w.WriteBool(ap.ch3.force75)
	w.WriteUint16(ap.ch3.length)
	w.WriteBool(ap.ch3.lengthEnable)
	for b := 0; b < 2; b++ {
		for i := 0; i < 16; i++ {
			w.WriteUint8(ap.ch3.ram[b][i])
		}
	}

	w.WriteBool(ap.ch4.enabled)
	w.WriteUint8(ap.ch4.shift)
	w.WriteBool(ap.ch4.width7)
	w.WriteUint8(ap.ch4.ratio)
	w.WriteUint16(ap.ch4.lfsr)
	w.WriteInt32(ap.ch4.timer)
	w.WriteUint8(ap.ch4.volume)
	w.WriteUint8(ap.ch4.envInit)
	w.WriteBool(ap.ch4.envUp)
	w.WriteUint8(ap.ch4.envPeriod)
	w.WriteUint8(ap.ch4.envCounter)
	w.WriteUint8(ap.ch4.length)
	w.WriteBool(ap.ch4.lengthEnable)

	for _, f := range []*fifo{&ap.fifoA, &ap.fifoB} {
		for i := 0; i < 32; i++ {
			w.WriteUint8(uint8(f.buf[i]))
		}
		w.WriteUint32(uint32(f.head))
		w.WriteUint32(uint32(f.len))
		w.WriteUint8(uint8(f.current))
		w.WriteUint32(uint32(f.timerSelect))
	}
}

// LoadState restores the APU.
func (ap *APU) LoadState(r *statefile.Reader) error {
	ap.soundcntL = r.ReadUint16()
	ap.soundcntH = r.ReadUint16()
	ap.masterOn = r.ReadBool()
	ap.soundbias = r.ReadUint16()
	ap.resampleFreq = r.ReadUint32()

	for _, ch := range []*square{&ap.ch1, &ap.ch2} {
		ch.enabled = r.ReadBool()
		ch.duty = r.ReadUint8()
		ch.freq = r.ReadUint16()
		ch.step = r.ReadUint8()
		ch.timer = r.ReadInt32()
		ch.volume = r.ReadUint8()
		ch.envInit = r.ReadUint8()
		ch.envUp = r.ReadBool()
		ch.envPeriod = r.ReadUint8()
		ch.envCounter = r.ReadUint8()
		ch.length = r.ReadUint8()
		ch.lengthEnable = r.ReadBool()
		ch.sweepPeriod = r.ReadUint8()
		ch.sweepDown = r.ReadBool()
		ch.sweepShift = r.ReadUint8()
		ch.sweepCounter = r.ReadUint8()
	}

	ap.ch3.enabled = r.ReadBool()
	ap.ch3.playing = r.ReadBool()
	ap.ch3.twoBanks = r.ReadBool()
	ap.ch3.bank = r.ReadUint8()
	ap.ch3.freq = r.ReadUint16()
	ap.ch3.pos = r.ReadUint8()
	ap.ch3.timer = r.ReadInt32()
	ap.ch3.volume = r.ReadUint8()
	ap.ch3.force75 = r.ReadBool()
	ap.ch3.length = r.ReadUint16()
	ap.ch3.lengthEnable = r.ReadBool()
	for b := 0; b < 2; b++ {
		for i := 0; i < 16; i++ {
			ap.ch3.ram[b][i] = r.ReadUint8()
		}
	}

	ap.ch4.enabled = r.ReadBool()
	ap.ch4.shift = r.ReadUint8()
	ap.ch4.width7 = r.ReadBool()
	ap.ch4.ratio = r.ReadUint8()
	ap.ch4.lfsr = r.ReadUint16()
	ap.ch4.timer = r.ReadInt32()
	ap.ch4.volume = r.ReadUint8()
	ap.ch4.envInit = r.ReadUint8()
	ap.ch4.envUp = r.ReadBool()
	ap.ch4.envPeriod = r.ReadUint8()
	ap.ch4.envCounter = r.ReadUint8()
	ap.ch4.length = r.ReadUint8()
	ap.ch4.lengthEnable = r.ReadBool()

	for _, f := range []*fifo{&ap.fifoA, &ap.fifoB} {
		for i := 0; i < 32; i++ {
			f.buf[i] = int8(r.ReadUint8())
		}
		f.head = int(r.ReadUint32())
		f.len = int(r.ReadUint32())
		f.current = int8(r.ReadUint8())
		f.timerSelect = int(r.ReadUint32())
	}

	ap.lastSample = ap.sch.Cycles()
	return r.Err()
}
