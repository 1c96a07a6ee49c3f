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
	"time"

	"github.com/seliware/gopheradvance/logger"
)

// GPIO register offsets in the ROM address space.
const (
	GPIOData      = 0x0000c4
	GPIODirection = 0x0000c6
	GPIOControl   = 0x0000c8
)

// serial pins of the S-3511 as seen in the GPIO data register.
const (
	rtcPinSCK = 0x1
	rtcPinSIO = 0x2
	rtcPinCS  = 0x4
)

type rtcState int

const (
	rtcCommand rtcState = iota
	rtcReceive
	rtcSend
)

// RTC is the S-3511 real time clock found in cartridges such as the
// Pokemon series. It hangs off the cartridge GPIO port, bit-banged over
// three pins.
type RTC struct {
	// gpio registers. when readEnable is clear the registers are
	// write-only and reads fall through to the ROM
	pins       uint16
	direction  uint16
	readEnable bool

	state   rtcState
	buf     uint8
	bits    int
	cmd     uint8
	payload []uint8
	sendPos int

	// control register of the S-3511 itself. bit 6 selects 24 hour mode
	control uint8
}

// NewRTC is the preferred method of initialisation for the RTC type.
func NewRTC() *RTC {
	return &RTC{
		control: 0x40,
	}
}

// ReadRegister reads one of the GPIO registers. The bool return value is
// false when the GPIO is in write-only mode and the read should fall
// through to the ROM.
func (rtc *RTC) ReadRegister(offset uint32) (uint16, bool) {
	if !rtc.readEnable {
		return 0, false
	}

	switch offset {
	case GPIOData:
		return rtc.pins, true
	case GPIODirection:
		return rtc.direction, true
	case GPIOControl:
		return 1, true
	}
	return 0, false
}

// WriteRegister writes one of the GPIO registers.
func (rtc *RTC) WriteRegister(offset uint32, data uint16) {
	switch offset {
	case GPIOData:
		rtc.clock(data & 0x7)
	case GPIODirection:
		rtc.direction = data & 0xf
	case GPIOControl:
		rtc.readEnable = data&0x1 == 0x1
	}
}

// clock applies a new set of pin values, advancing the serial state
// machine on the rising edge of SCK.
func (rtc *RTC) clock(pins uint16) {
	prev := rtc.pins
	rtc.pins = pins

	// deselecting the chip aborts any transfer in progress
	if pins&rtcPinCS == 0 {
		rtc.state = rtcCommand
		rtc.buf = 0
		rtc.bits = 0
		return
	}

	// rising edge of SCK
	if prev&rtcPinSCK != 0 || pins&rtcPinSCK == 0 {
		return
	}

	switch rtc.state {
	case rtcCommand:
		rtc.buf |= uint8((pins&rtcPinSIO)>>1) << rtc.bits
		rtc.bits++
		if rtc.bits == 8 {
			rtc.command(rtc.buf)
			rtc.buf = 0
			rtc.bits = 0
		}

	case rtcReceive:
		rtc.buf |= uint8((pins&rtcPinSIO)>>1) << rtc.bits
		rtc.bits++
		if rtc.bits == 8 {
			rtc.receive(rtc.buf)
			rtc.buf = 0
			rtc.bits = 0
		}

	case rtcSend:
		if rtc.sendPos < len(rtc.payload)*8 {
			bit := (rtc.payload[rtc.sendPos/8] >> (rtc.sendPos % 8)) & 1
			rtc.pins = (rtc.pins &^ rtcPinSIO) | uint16(bit)<<1
			rtc.sendPos++
		}
	}
}

// command interprets a freshly received command byte. The S-3511 expects
// the value 6 in the high nibble; titles that clock bytes out in the
// opposite order are accommodated by reversing.
func (rtc *RTC) command(b uint8) {
	if b>>4 != 0x6 {
		rev := uint8(0)
		for i := 0; i < 8; i++ {
			rev |= ((b >> i) & 1) << (7 - i)
		}
		if rev>>4 != 0x6 {
			logger.Logf(logger.Allow, "cartridge", "rtc: bad command byte %#02x", b)
			return
		}
		b = rev
	}

	cmd := (b >> 1) & 0x7
	read := b&1 == 1

	switch cmd {
	case 0: // reset
		rtc.control = 0
		rtc.state = rtcCommand

	case 1: // control register
		if read {
			rtc.payload = []uint8{rtc.control}
			rtc.send()
		} else {
			rtc.cmd = cmd
			rtc.state = rtcReceive
		}

	case 2: // full date and time
		if read {
			rtc.payload = rtc.dateTime()
			rtc.send()
		} else {
			rtc.cmd = cmd
			rtc.state = rtcReceive
		}

	case 3: // time only
		if read {
			rtc.payload = rtc.dateTime()[4:]
			rtc.send()
		} else {
			rtc.cmd = cmd
			rtc.state = rtcReceive
		}

	default:
		// alarm and irq commands are accepted and discarded
		if !read {
			rtc.cmd = cmd
			rtc.state = rtcReceive
		} else {
			rtc.payload = []uint8{0}
			rtc.send()
		}
	}
}

func (rtc *RTC) send() {
	rtc.state = rtcSend
	rtc.sendPos = 0
}

// receive consumes a payload byte for a write command. Only the control
// register is actually writable; the emulated clock always follows the
// host clock.
func (rtc *RTC) receive(b uint8) {
	if rtc.cmd == 1 {
		rtc.control = b
		rtc.state = rtcCommand
	}
}

func toBCD(v int) uint8 {
	return uint8(v/10)<<4 | uint8(v%10)
}

// dateTime renders the host clock in the seven byte register layout of
// the S-3511: year, month, day, weekday, hour, minute, second. All BCD.
func (rtc *RTC) dateTime() []uint8 {
	now := time.Now()

	hour := now.Hour()
	if rtc.control&0x40 == 0 && hour >= 12 {
		// 12 hour mode, with the am/pm flag in bit 7
		return []uint8{
			toBCD(now.Year() % 100),
			toBCD(int(now.Month())),
			toBCD(now.Day()),
			toBCD(int(now.Weekday())),
			toBCD(hour-12) | 0x80,
			toBCD(now.Minute()),
			toBCD(now.Second()),
		}
	}

	return []uint8{
		toBCD(now.Year() % 100),
		toBCD(int(now.Month())),
		toBCD(now.Day()),
		toBCD(int(now.Weekday())),
		toBCD(hour),
		toBCD(now.Minute()),
		toBCD(now.Second()),
	}
}
