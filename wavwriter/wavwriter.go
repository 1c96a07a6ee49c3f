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

// Package wavwriter records the APU output stream to disk as a WAV
// file. Audio data is buffered in memory in its entirety and written
// when mixing ends, so it is most suitable for captures of bounded
// length.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/seliware/gopheradvance/curated"
	"github.com/seliware/gopheradvance/display"
)

// WavWriter implements the display.AudioMixer interface, recording
// everything it is given.
type WavWriter struct {
	filename   string
	sampleRate int
	samples    []int
}

// New is the preferred method of initialisation for the WavWriter
// type.
func New(filename string, sampleRate uint32) (*WavWriter, error) {
	return &WavWriter{
		filename:   filename,
		sampleRate: int(sampleRate),
	}, nil
}

// SetAudio implements the display.AudioMixer interface.
func (aw *WavWriter) SetAudio(samples []display.Sample) error {
	for _, s := range samples {
		aw.samples = append(aw.samples, int(s.Left), int(s.Right))
	}
	return nil
}

// EndMixing implements the display.AudioMixer interface. The WAV file
// is encoded and written in one go.
func (aw *WavWriter) EndMixing() error {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, aw.sampleRate, 16, 2, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  aw.sampleRate,
		},
		Data:           aw.samples,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
