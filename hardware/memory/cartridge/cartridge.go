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

import (
	"strings"

	"github.com/seliware/gopheradvance/curated"
	"github.com/seliware/gopheradvance/logger"
)

// MaxROMSize is the largest addressable game pak ROM.
const MaxROMSize = 32 * 1024 * 1024

// MinROMSize is the size of the cartridge header, the smallest image that
// can plausibly be called a ROM.
const MinROMSize = 192

// Cartridge represents the game pak: ROM, backup storage and optional
// real time clock.
type Cartridge struct {
	ROM []byte

	Title    string
	GameCode string

	Backup       Backup
	BackupSource BackupSource

	// non-nil when the cartridge carries an RTC
	RTC *RTC
}

// NewCartridge is the preferred method of initialisation for the
// Cartridge type.
func NewCartridge() *Cartridge {
	return &Cartridge{}
}

// Attach validates and takes ownership of a ROM image. Backup storage and
// RTC are not decided here; the hardware package consults the game
// database and calls SetBackupType() and AttachRTC() as appropriate.
func (cart *Cartridge) Attach(data []byte) error {
	if len(data) < MinROMSize {
		return curated.Errorf("cartridge: ROM image too small (%d bytes)", len(data))
	}
	if len(data) > MaxROMSize {
		return curated.Errorf("cartridge: ROM image too large (%d bytes)", len(data))
	}

	cart.ROM = make([]byte, len(data))
	copy(cart.ROM, data)

	cart.Title = strings.TrimRight(string(cart.ROM[0xa0:0xac]), "\x00")
	cart.GameCode = string(cart.ROM[0xac:0xb0])

	logger.Logf(logger.Allow, "cartridge", "%s (%s) %dKB", cart.Title, cart.GameCode, len(cart.ROM)/1024)

	return nil
}

// Eject discards the ROM and everything decided from it.
func (cart *Cartridge) Eject() {
	cart.ROM = nil
	cart.Title = ""
	cart.GameCode = ""
	cart.Backup = nil
	cart.BackupSource = BackupSourceAuto
	cart.RTC = nil
}

// SetBackupType creates the backup device. Existing device contents are
// carried over when the type is unchanged, otherwise the new device
// starts empty.
func (cart *Cartridge) SetBackupType(bt BackupType, src BackupSource) {
	var keep []byte
	if cart.Backup != nil && cart.Backup.Type() == bt {
		keep = cart.Backup.Data()
	}
	cart.Backup = NewBackup(bt, keep)
	cart.BackupSource = src

	logger.Logf(logger.Allow, "cartridge", "backup storage: %s", bt)
}

// LoadBackup replaces the contents of the backup device, typically with
// the bytes of a save file.
func (cart *Cartridge) LoadBackup(data []byte) {
	if cart.Backup == nil {
		return
	}
	d := cart.Backup.Data()
	for i := range d {
		d[i] = 0xff
	}
	copy(d, data)
	cart.Backup.Flushed()
}

// EEPROM returns the backup device as an EEPROM, or nil if the backup
// device is not an EEPROM. The memory bus and DMA engine use this for the
// serial interface.
func (cart *Cartridge) EEPROM() *EEPROM {
	if eep, ok := cart.Backup.(*EEPROM); ok {
		return eep
	}
	return nil
}

// AttachRTC gives the cartridge a real time clock.
func (cart *Cartridge) AttachRTC() {
	cart.RTC = NewRTC()
	logger.Log(logger.Allow, "cartridge", "rtc attached")
}
