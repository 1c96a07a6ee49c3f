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

package playmode

import (
	"time"

	"github.com/seliware/gopheradvance/curated"
	"github.com/seliware/gopheradvance/display"
	"github.com/seliware/gopheradvance/hardware/apu"
	"github.com/seliware/gopheradvance/logger"
	"github.com/seliware/gopheradvance/wavwriter"
)

// audioBackend is a running audio sink. One backend file per
// implementation.
type audioBackend interface {
	// queue hands a run of samples to the device
	queue(samples []display.Sample) error

	// close the device
	close()
}

// audioPump drains the APU ring on a ticker and feeds the backend plus
// the optional WAV recorder.
type audioPump struct {
	backend audioBackend
	wav     *wavwriter.WavWriter
	stop    chan struct{}
	done    chan struct{}
}

// newAudioBackend starts the named audio backend and its pump. The
// name "none" runs the pump with no device, which keeps the ring
// drained and the WAV recorder fed.
func newAudioBackend(name string, ring *apu.Ring, wavFile string) (*audioPump, error) {
	pump := &audioPump{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	var err error
	switch name {
	case "", "sdl":
		pump.backend, err = newSDLAudio()
	case "oto":
		pump.backend, err = newOtoAudio()
	case "none":
		pump.backend = nil
	default:
		return nil, curated.Errorf("playmode: unknown audio backend %s", name)
	}
	if err != nil {
		return nil, err
	}

	if wavFile != "" {
		pump.wav, err = wavwriter.New(wavFile, apu.DefaultResampleFreq)
		if err != nil {
			return nil, err
		}
	}

	go pump.run(ring)
	return pump, nil
}

func (pump *audioPump) run(ring *apu.Ring) {
	defer close(pump.done)

	buf := make([]display.Sample, 2048)
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-pump.stop:
			return
		case <-tick.C:
		}

		n := ring.Pop(buf)
		if n == 0 {
			continue
		}

		if pump.backend != nil {
			if err := pump.backend.queue(buf[:n]); err != nil {
				logger.Logf(logger.Allow, "playmode", "audio: %v", err)
			}
		}
		if pump.wav != nil {
			pump.wav.SetAudio(buf[:n])
		}
	}
}

func (pump *audioPump) end() {
	close(pump.stop)
	<-pump.done

	if pump.backend != nil {
		pump.backend.close()
	}
	if pump.wav != nil {
		if err := pump.wav.EndMixing(); err != nil {
			logger.Logf(logger.Allow, "playmode", "wav: %v", err)
		}
	}
}
