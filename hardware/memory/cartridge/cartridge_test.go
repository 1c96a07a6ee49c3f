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

package cartridge_test

import (
	"testing"

	"github.com/seliware/gopheradvance/hardware/memory/cartridge"
	"github.com/seliware/gopheradvance/test"
)

func TestAttachValidation(t *testing.T) {
	cart := cartridge.NewCartridge()

	test.ExpectFailure(t, cart.Attach(make([]byte, 16)))
	test.ExpectFailure(t, cart.Attach(make([]byte, 33*1024*1024)))

	rom := make([]byte, 1024)
	copy(rom[0xa0:], "METROID4USA")
	copy(rom[0xac:], "AMTE")
	test.ExpectSuccess(t, cart.Attach(rom))
	test.Equate(t, cart.Title, "METROID4USA")
	test.Equate(t, cart.GameCode, "AMTE")
}

func TestDetectBackup(t *testing.T) {
	rom := make([]byte, 4096)
	test.Equate(t, int(cartridge.DetectBackup(rom)), int(cartridge.BackupNone))

	copy(rom[256:], "SRAM_V113")
	test.Equate(t, int(cartridge.DetectBackup(rom)), int(cartridge.BackupSRAM))

	rom = make([]byte, 4096)
	copy(rom[512:], "FLASH1M_V102")
	test.Equate(t, int(cartridge.DetectBackup(rom)), int(cartridge.BackupFlash128))

	rom = make([]byte, 4096)
	copy(rom[512:], "FLASH512_V130")
	test.Equate(t, int(cartridge.DetectBackup(rom)), int(cartridge.BackupFlash64))

	rom = make([]byte, 4096)
	copy(rom[1024:], "EEPROM_V124")
	test.Equate(t, int(cartridge.DetectBackup(rom)), int(cartridge.BackupEEPROM8K))

	// signatures are word aligned in real images. an unaligned string is
	// not a signature
	rom = make([]byte, 4096)
	copy(rom[257:], "SRAM_V113")
	test.Equate(t, int(cartridge.DetectBackup(rom)), int(cartridge.BackupNone))
}

func TestSRAM(t *testing.T) {
	b := cartridge.NewBackup(cartridge.BackupSRAM, nil)

	test.Equate(t, b.Dirty(), false)
	b.Write8(0x100, 0x42)
	test.Equate(t, b.Read8(0x100), 0x42)
	test.Equate(t, b.Dirty(), true)

	b.Flushed()
	test.Equate(t, b.Dirty(), false)

	// 32k mirror
	test.Equate(t, b.Read8(0x8100), 0x42)
}

func flashCommand(b cartridge.Backup, cmd uint8) {
	b.Write8(0x5555, 0xaa)
	b.Write8(0x2aaa, 0x55)
	b.Write8(0x5555, cmd)
}

func TestFlashChipID(t *testing.T) {
	b := cartridge.NewBackup(cartridge.BackupFlash128, nil)

	flashCommand(b, 0x90)
	test.Equate(t, b.Read8(0x0000), 0xc2)
	test.Equate(t, b.Read8(0x0001), 0x09)

	flashCommand(b, 0xf0)
	test.Equate(t, b.Read8(0x0000), 0xff)

	b64 := cartridge.NewBackup(cartridge.BackupFlash64, nil)
	flashCommand(b64, 0x90)
	test.Equate(t, b64.Read8(0x0000), 0xbf)
	test.Equate(t, b64.Read8(0x0001), 0xd4)
}

func TestFlashProgramAndErase(t *testing.T) {
	b := cartridge.NewBackup(cartridge.BackupFlash64, nil)

	// program a byte
	flashCommand(b, 0xa0)
	b.Write8(0x1234, 0x5a)
	test.Equate(t, b.Read8(0x1234), 0x5a)
	test.Equate(t, b.Dirty(), true)

	// programming can only clear bits
	flashCommand(b, 0xa0)
	b.Write8(0x1234, 0xff)
	test.Equate(t, b.Read8(0x1234), 0x5a)

	// sector erase restores 0xff
	flashCommand(b, 0x80)
	b.Write8(0x5555, 0xaa)
	b.Write8(0x2aaa, 0x55)
	b.Write8(0x1000, 0x30)
	test.Equate(t, b.Read8(0x1234), 0xff)

	// chip erase
	flashCommand(b, 0xa0)
	b.Write8(0x0000, 0x00)
	flashCommand(b, 0x80)
	flashCommand(b, 0x10)
	test.Equate(t, b.Read8(0x0000), 0xff)
}

func TestFlashBankSwitch(t *testing.T) {
	b := cartridge.NewBackup(cartridge.BackupFlash128, nil)

	flashCommand(b, 0xa0)
	b.Write8(0x0100, 0x11)

	// switch to bank 1 and program the same window address
	flashCommand(b, 0xb0)
	b.Write8(0x0000, 0x01)
	flashCommand(b, 0xa0)
	b.Write8(0x0100, 0x22)
	test.Equate(t, b.Read8(0x0100), 0x22)

	// back to bank 0
	flashCommand(b, 0xb0)
	b.Write8(0x0000, 0x00)
	test.Equate(t, b.Read8(0x0100), 0x11)

	test.Equate(t, b.Data()[0x0100], 0x11)
	test.Equate(t, b.Data()[0x10100], 0x22)
}

// clock a bit string into the eeprom
func eepromWriteBits(eep *cartridge.EEPROM, bits []uint16) {
	for _, b := range bits {
		eep.WriteBit(b)
	}
}

func eepromAddrBits(addr uint32, width int) []uint16 {
	bits := make([]uint16, width)
	for i := 0; i < width; i++ {
		bits[i] = uint16((addr >> (width - 1 - i)) & 1)
	}
	return bits
}

func TestEEPROMWriteThenRead(t *testing.T) {
	eep := cartridge.NewEEPROM(cartridge.BackupEEPROM512, nil)

	payload := uint64(0x0123456789abcdef)

	// write request: "10", address, 64 data bits, stop bit
	eepromWriteBits(eep, []uint16{1, 0})
	eepromWriteBits(eep, eepromAddrBits(3, 6))
	for i := 63; i >= 0; i-- {
		eep.WriteBit(uint16((payload >> i) & 1))
	}
	eep.WriteBit(0)

	test.Equate(t, eep.Dirty(), true)
	test.Equate(t, eep.Data()[3*8], 0x01)
	test.Equate(t, eep.Data()[3*8+7], 0xef)

	// read request: "11", address, stop bit
	eepromWriteBits(eep, []uint16{1, 1})
	eepromWriteBits(eep, eepromAddrBits(3, 6))
	eep.WriteBit(0)

	// four dummy bits then the payload, msb first
	var got uint64
	for i := 0; i < 4; i++ {
		test.Equate(t, eep.ReadBit(), 0)
	}
	for i := 0; i < 64; i++ {
		got = got<<1 | uint64(eep.ReadBit())
	}
	test.Equate(t, got, payload)

	// idle reads answer ready
	test.Equate(t, eep.ReadBit(), 1)
}

func TestEEPROMDMAWidthHint(t *testing.T) {
	eep := cartridge.NewEEPROM(cartridge.BackupEEPROM8K, nil)

	// a 9 bit read request means the small device
	eep.HintDMACount(9)
	test.Equate(t, int(eep.Type()), int(cartridge.BackupEEPROM512))
	test.Equate(t, len(eep.Data()), 512)

	// the hint is ignored once a serial access has happened
	eep.WriteBit(1)
	eep.HintDMACount(17)
	test.Equate(t, int(eep.Type()), int(cartridge.BackupEEPROM512))
}
