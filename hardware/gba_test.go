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

package hardware_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/seliware/gopheradvance/digest"
	"github.com/seliware/gopheradvance/hardware"
	"github.com/seliware/gopheradvance/hardware/memory"
	"github.com/seliware/gopheradvance/test"
)

// a legal BIOS: an idle loop at the reset vector.
func testBIOS() []byte {
	bios := make([]byte, memory.BIOSSize)
	binary.LittleEndian.PutUint32(bios[0:], 0xea00003e) // B 0x100
	binary.LittleEndian.PutUint32(bios[0x100:], 0xeafffffe) // B .
	return bios
}

// the BIOS boot scenario: load a legal BIOS, no ROM, reset, run one
// frame. the PC stays inside the BIOS and nothing crashes.
func TestBIOSBoot(t *testing.T) {
	gba := hardware.NewGBA()
	test.ExpectSuccess(t, gba.AttachBIOS(testBIOS()))

	gba.Reset()
	gba.RunFrame()

	pc := gba.CPU.Register(15)
	if pc >= memory.BIOSSize+8 {
		t.Errorf("PC left the BIOS: %08x", pc)
	}

	// the frame advanced the full cycle budget before normalizing
	test.Equate(t, gba.Sched.Cycles() < hardware.CyclesPerFrame, true)
}

func TestBIOSSizeValidation(t *testing.T) {
	gba := hardware.NewGBA()
	test.ExpectFailure(t, gba.AttachBIOS(make([]byte, 100)))
	test.ExpectFailure(t, gba.AttachBIOS(make([]byte, 32*1024)))
	test.ExpectSuccess(t, gba.AttachBIOS(make([]byte, 16*1024)))
}

func TestHaltWakesOnInterrupt(t *testing.T) {
	gba := hardware.NewGBA()
	test.ExpectSuccess(t, gba.AttachBIOS(testBIOS()))
	gba.Reset()

	// enable the timer 0 interrupt, start a short timer, halt
	gba.Mem.Write16(0x04000200, 0x0008, memory.AccessNonSeq) // IE
	gba.Mem.Write16(0x04000100, 0xff00, memory.AccessNonSeq) // reload
	gba.Mem.Write16(0x04000102, 0x00c0, memory.AccessNonSeq) // enable + IRQ
	gba.Mem.Write8(0x04000301, 0x00, memory.AccessNonSeq)    // HALTCNT: halt

	test.Equate(t, gba.CPU.Halted, true)

	gba.RunFrame()

	// the timer overflow raised IF bit 3 and woke the CPU, IME or not
	test.Equate(t, gba.CPU.Halted, false)
	v, _ := gba.Mem.Read16(0x04000202, memory.AccessNonSeq)
	test.Equate(t, v&0x0008, uint32(0x0008))
}

func TestQuicksaveRoundTrip(t *testing.T) {
	gba := hardware.NewGBA()
	test.ExpectSuccess(t, gba.AttachBIOS(testBIOS()))
	gba.Reset()

	// run a little and disturb some state
	gba.RunFrame()
	gba.Mem.Write32(0x02000040, 0x12345678, memory.AccessNonSeq)
	gba.Mem.Write16(0x04000208, 1, memory.AccessNonSeq) // IME

	snap := gba.Quicksave()

	// run on, diverging from the snapshot
	for i := 0; i < 3; i++ {
		gba.RunFrame()
	}
	gba.Mem.Write32(0x02000040, 0, memory.AccessNonSeq)

	test.ExpectSuccess(t, gba.Quickload(snap))

	v, _ := gba.Mem.Read32(0x02000040, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x12345678))

	ime, _ := gba.Mem.Read16(0x04000208, memory.AccessNonSeq)
	test.Equate(t, ime, uint32(1))

	// a quickload of a quicksave is an identity: saving again produces
	// the same blob
	snap2 := gba.Quicksave()
	if !bytes.Equal(snap, snap2) {
		t.Errorf("quicksave after quickload differs from original snapshot")
	}

	// the machine still runs
	gba.RunFrame()
}

func TestQuickloadRejectsGarbage(t *testing.T) {
	gba := hardware.NewGBA()
	gba.Reset()

	test.ExpectFailure(t, gba.Quickload([]byte("not a quicksave")))
	test.ExpectFailure(t, gba.Quickload(nil))

	// version mismatch
	bad := gba.Quicksave()
	bad[4] = 0xff
	test.ExpectFailure(t, gba.Quickload(bad))

	// truncation
	short := gba.Quicksave()
	test.ExpectFailure(t, gba.Quickload(short[:len(short)/2]))
}

func TestROMAttachAndBackupDetection(t *testing.T) {
	gba := hardware.NewGBA()

	rom := make([]byte, 4096)
	copy(rom[0xa0:], "TESTGAME")
	copy(rom[0xac:], "XXXX")
	copy(rom[0x200:], "FLASH1M_V102")
	test.ExpectSuccess(t, gba.AttachROM(rom))

	if gba.Cart.Backup == nil {
		t.Fatalf("no backup device attached")
	}
	test.Equate(t, gba.Cart.Backup.Type().String(), "flash 128k")

	// database hit: Pokemon Emerald gets flash plus RTC
	rom = make([]byte, 4096)
	copy(rom[0xac:], "BPEE")
	gba2 := hardware.NewGBA()
	test.ExpectSuccess(t, gba2.AttachROM(rom))
	test.Equate(t, gba2.Cart.Backup.Type().String(), "flash 128k")
	test.Equate(t, gba2.Cart.RTC != nil, true)
}

func TestUnalignedThroughTheBus(t *testing.T) {
	gba := hardware.NewGBA()
	gba.Reset()

	gba.Mem.Write32(0x02000000, 0xdeadbeef, memory.AccessNonSeq)
	v, _ := gba.Mem.Read32(0x02000001, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0xefdeadbe))
}

// two consoles given identical inputs produce identical video, frame
// for frame. determinism is what makes the quicksave and any future
// regression testing possible.
func TestDeterministicVideo(t *testing.T) {
	run := func() string {
		gba := hardware.NewGBA()
		if err := gba.AttachBIOS(testBIOS()); err != nil {
			t.Fatal(err)
		}
		dig := digest.NewVideo()
		gba.PPU.AddPixelRenderer(dig)
		gba.Reset()

		// put something on the screen: mode 3, BG2, one pixel
		gba.Mem.Write16(0x04000000, 0x0403, memory.AccessNonSeq)
		gba.Mem.Write16(0x06000000+2*(80*240+120), 0x7fff, memory.AccessNonSeq)

		for i := 0; i < 5; i++ {
			gba.RunFrame()
		}

		test.Equate(t, dig.Frames(), 5)
		return dig.Hash()
	}

	test.Equate(t, run(), run())
}
