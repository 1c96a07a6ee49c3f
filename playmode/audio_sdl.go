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
	"encoding/binary"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/seliware/gopheradvance/curated"
	"github.com/seliware/gopheradvance/display"
	"github.com/seliware/gopheradvance/hardware/apu"
)

// sdlAudio queues samples to an SDL audio device.
type sdlAudio struct {
	dev sdl.AudioDeviceID
	buf []byte
}

func newSDLAudio() (*sdlAudio, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, curated.Errorf("playmode: sdl audio: %v", err)
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(apu.DefaultResampleFreq),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
	}

	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return nil, curated.Errorf("playmode: sdl audio: %v", err)
	}

	sdl.PauseAudioDevice(dev, false)

	return &sdlAudio{dev: dev}, nil
}

func (au *sdlAudio) queue(samples []display.Sample) error {
	need := len(samples) * 4
	if cap(au.buf) < need {
		au.buf = make([]byte, need)
	}
	au.buf = au.buf[:need]

	for i, s := range samples {
		binary.LittleEndian.PutUint16(au.buf[i*4:], uint16(s.Left))
		binary.LittleEndian.PutUint16(au.buf[i*4+2:], uint16(s.Right))
	}

	return sdl.QueueAudio(au.dev, au.buf)
}

func (au *sdlAudio) close() {
	sdl.CloseAudioDevice(au.dev)
}
