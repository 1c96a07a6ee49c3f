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

import "bytes"

// the official SDK leaves the version string of the backup library in the
// ROM image, aligned to a word boundary. scanning for these strings is
// how the backup type of a title not in the game database is decided.
var signatures = []struct {
	sig []byte
	typ BackupType
}{
	{[]byte("EEPROM_V"), BackupEEPROM8K},
	{[]byte("SRAM_V"), BackupSRAM},
	{[]byte("SRAM_F_V"), BackupSRAM},
	{[]byte("FLASH_V"), BackupFlash64},
	{[]byte("FLASH512_V"), BackupFlash64},
	{[]byte("FLASH1M_V"), BackupFlash128},
}

// DetectBackup scans a ROM image for the SDK library signature and
// returns the matching backup type. Returns BackupNone if no signature is
// found.
func DetectBackup(rom []byte) BackupType {
	for i := 0; i+4 < len(rom); i += 4 {
		for _, s := range signatures {
			if len(rom)-i >= len(s.sig) && bytes.Equal(rom[i:i+len(s.sig)], s.sig) {
				return s.typ
			}
		}
	}
	return BackupNone
}
