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

package cartridge

// sram is the simplest backup device. A battery backed 32KiB RAM on an
// 8bit bus.
type sram struct {
	data  []byte
	dirty bool
}

func newSRAM(data []byte) *sram {
	s := &sram{
		data: make([]byte, BackupSRAM.Size()),
	}
	for i := range s.data {
		s.data[i] = 0xff
	}
	copy(s.data, data)
	return s
}

func (s *sram) Type() BackupType {
	return BackupSRAM
}

func (s *sram) Read8(addr uint32) uint8 {
	return s.data[addr&0x7fff]
}

func (s *sram) Write8(addr uint32, data uint8) {
	s.data[addr&0x7fff] = data
	s.dirty = true
}

func (s *sram) Data() []byte {
	return s.data
}

func (s *sram) Dirty() bool {
	return s.dirty
}

func (s *sram) Flushed() {
	s.dirty = false
}
