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
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/seliware/gopheradvance/curated"
	"github.com/seliware/gopheradvance/display"
	"github.com/seliware/gopheradvance/hardware/apu"
)

// otoAudio plays samples through the oto library, which talks to the
// OS mixer directly and needs no SDL audio subsystem.
type otoAudio struct {
	ctx    *oto.Context
	player *oto.Player

	crit sync.Mutex
	buf  []byte
}

func newOtoAudio() (*otoAudio, error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(apu.DefaultResampleFreq),
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, curated.Errorf("playmode: oto: %v", err)
	}
	<-ready

	au := &otoAudio{ctx: ctx}
	au.player = ctx.NewPlayer(au)
	au.player.Play()
	return au, nil
}

// Read implements the io.Reader the oto player pulls from. Underruns
// are padded with silence.
func (au *otoAudio) Read(p []byte) (int, error) {
	au.crit.Lock()
	defer au.crit.Unlock()

	n := copy(p, au.buf)
	au.buf = au.buf[n:]

	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (au *otoAudio) queue(samples []display.Sample) error {
	au.crit.Lock()
	defer au.crit.Unlock()

	for _, s := range samples {
		var b [4]byte
		binary.LittleEndian.PutUint16(b[0:], uint16(s.Left))
		binary.LittleEndian.PutUint16(b[2:], uint16(s.Right))
		au.buf = append(au.buf, b[:]...)
	}

	// cap the backlog at roughly a quarter of a second
	max := int(apu.DefaultResampleFreq)
	if len(au.buf) > max {
		au.buf = au.buf[len(au.buf)-max:]
	}
	return nil
}

func (au *otoAudio) close() {
	au.player.Close()
}
