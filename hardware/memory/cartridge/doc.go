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

// Package cartridge represents the GBA game pak: the ROM image, the backup
// storage device soldered next to it, and the GPIO-attached real-time
// clock that some cartridges carry.
//
// The backup device type is normally taken from the game database, keyed
// by the four character game code in the ROM header. For games not in the
// database the ROM image is scanned for the library version strings that
// the official SDK leaves in the binary ("SRAM_V", "FLASH1M_V" and so on).
// A front-end can also force a type before emulation starts.
package cartridge
