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

// Package gamedb maps the four character game code in a ROM header to the
// hardware soldered onto that cartridge. The table covers titles whose
// backup type cannot be detected from the ROM image alone, or which carry
// a real time clock. Everything else falls back to signature detection.
package gamedb

import "github.com/seliware/gopheradvance/hardware/memory/cartridge"

// Entry describes the cartridge hardware for one title.
type Entry struct {
	Code   string
	Title  string
	Backup cartridge.BackupType
	RTC    bool
}

// the game code is the four bytes at offset 0xac of the ROM header. the
// last byte is the region, which we match exactly rather than wildcarding.
// regional variants therefore get their own row.
var entries = []Entry{
	// Pokemon mainline titles. flash plus RTC for the Hoenn games
	{"AXVE", "Pokemon Ruby", cartridge.BackupFlash128, true},
	{"AXVP", "Pokemon Ruby", cartridge.BackupFlash128, true},
	{"AXVJ", "Pokemon Ruby", cartridge.BackupFlash128, true},
	{"AXPE", "Pokemon Sapphire", cartridge.BackupFlash128, true},
	{"AXPP", "Pokemon Sapphire", cartridge.BackupFlash128, true},
	{"AXPJ", "Pokemon Sapphire", cartridge.BackupFlash128, true},
	{"BPEE", "Pokemon Emerald", cartridge.BackupFlash128, true},
	{"BPEP", "Pokemon Emerald", cartridge.BackupFlash128, true},
	{"BPEJ", "Pokemon Emerald", cartridge.BackupFlash128, true},
	{"BPRE", "Pokemon FireRed", cartridge.BackupFlash128, false},
	{"BPRP", "Pokemon FireRed", cartridge.BackupFlash128, false},
	{"BPRJ", "Pokemon FireRed", cartridge.BackupFlash128, false},
	{"BPGE", "Pokemon LeafGreen", cartridge.BackupFlash128, false},
	{"BPGP", "Pokemon LeafGreen", cartridge.BackupFlash128, false},
	{"BPGJ", "Pokemon LeafGreen", cartridge.BackupFlash128, false},

	// other RTC carts, then WarioWare: Twisted!, which has no RTC
	{"U3IE", "Boktai: The Sun is in Your Hand", cartridge.BackupEEPROM8K, true},
	{"U3IP", "Boktai: The Sun is in Your Hand", cartridge.BackupEEPROM8K, true},
	{"U32E", "Boktai 2", cartridge.BackupEEPROM8K, true},
	{"U32P", "Boktai 2", cartridge.BackupEEPROM8K, true},
	{"RZWE", "WarioWare: Twisted!", cartridge.BackupSRAM, false},

	// titles whose library strings are missing or misleading
	{"AZLE", "The Legend of Zelda: A Link to the Past", cartridge.BackupSRAM, false},
	{"AZLP", "The Legend of Zelda: A Link to the Past", cartridge.BackupSRAM, false},
	{"BZME", "The Legend of Zelda: The Minish Cap", cartridge.BackupEEPROM8K, false},
	{"BZMP", "The Legend of Zelda: The Minish Cap", cartridge.BackupEEPROM8K, false},
	{"AMKE", "Mario Kart: Super Circuit", cartridge.BackupEEPROM8K, false},
	{"AMKP", "Mario Kart: Super Circuit", cartridge.BackupEEPROM8K, false},
	{"AGSE", "Golden Sun", cartridge.BackupFlash64, false},
	{"AGSP", "Golden Sun", cartridge.BackupFlash64, false},
	{"AGFE", "Golden Sun: The Lost Age", cartridge.BackupFlash64, false},
	{"AGFP", "Golden Sun: The Lost Age", cartridge.BackupFlash64, false},
	{"A2YE", "Top Gun: Combat Zones", cartridge.BackupNone, false},
	{"AYGE", "Yoshi's Island: Super Mario Advance 3", cartridge.BackupEEPROM512, false},
	{"AYGP", "Yoshi's Island: Super Mario Advance 3", cartridge.BackupEEPROM512, false},
	{"AMAE", "Super Mario Advance", cartridge.BackupEEPROM512, false},
	{"AMAP", "Super Mario Advance", cartridge.BackupEEPROM512, false},
	{"AX4E", "Super Mario Advance 4", cartridge.BackupFlash128, false},
	{"AX4P", "Super Mario Advance 4", cartridge.BackupFlash128, false},
	{"ALGE", "Dragon Ball Z: The Legacy of Goku", cartridge.BackupEEPROM512, false},
	{"ALFE", "Dragon Ball Z: The Legacy of Goku II", cartridge.BackupEEPROM8K, false},
	{"FADE", "Classic NES Series: Castlevania", cartridge.BackupEEPROM512, false},
	{"FZLE", "Classic NES Series: Zelda", cartridge.BackupEEPROM512, false},
}

// Lookup the cartridge hardware for the given game code. The bool return
// value is false if the title is not in the database.
func Lookup(code string) (Entry, bool) {
	for _, e := range entries {
		if e.Code == code {
			return e, true
		}
	}
	return Entry{}, false
}
