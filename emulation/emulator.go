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

// Package emulation runs the emulator goroutine: drain the command
// queue, run a frame, pace to the wall clock, repeat. It is the only
// package that mutates the hardware once the threads are up.
package emulation

import (
	"time"

	"github.com/seliware/gopheradvance/curated"
	"github.com/seliware/gopheradvance/display"
	"github.com/seliware/gopheradvance/hardware"
	"github.com/seliware/gopheradvance/hardware/memory/cartridge"
	"github.com/seliware/gopheradvance/logger"
)

// Notify is the emulator's channel back to the front-end. The emulator
// itself never touches the filesystem; anything that must be persisted
// goes out through here.
type Notify interface {
	// Error reports a rejected command or other user visible problem
	Error(err error)

	// PersistQuicksave and FetchQuicksave service the Quicksave and
	// Quickload commands
	PersistQuicksave(path string, data []byte) error
	FetchQuicksave(path string) ([]byte, error)

	// PersistBackup is called when the backup storage has been written
	// to, at a frame boundary
	PersistBackup(data []byte)
}

// Emulator owns the GBA and the command queue.
type Emulator struct {
	GBA    *hardware.GBA
	Queue  *Queue
	notify Notify

	state   State
	started bool
	speed   int

	limiter *display.Limiter
}

// NewEmulator is the preferred method of initialisation for the
// Emulator type.
func NewEmulator(notify Notify) *Emulator {
	return &Emulator{
		GBA:     hardware.NewGBA(),
		Queue:   NewQueue(),
		notify:  notify,
		state:   Initialising,
		limiter: display.NewLimiter(),
	}
}

// State returns the current loop state. Only meaningful from the
// emulator goroutine.
func (emu *Emulator) State() State {
	return emu.state
}

// Run is the emulator loop. It returns when an Exit command is
// consumed. Meant to be run on its own goroutine while the front-end
// pushes commands.
func (emu *Emulator) Run() {
	for {
		for _, cmd := range emu.Queue.Drain() {
			emu.execute(cmd)
		}

		if emu.state == Ending {
			return
		}

		if emu.state == Running {
			emu.GBA.RunFrame()
			emu.flushBackup()
			emu.limiter.CheckFrame()
		} else {
			// nothing to do until the front-end says otherwise
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (emu *Emulator) execute(cmd Command) {
	switch cmd.Type {
	case CmdExit:
		emu.state = Ending

	case CmdLoadBIOS:
		if err := emu.GBA.AttachBIOS(cmd.Data); err != nil {
			emu.notify.Error(err)
		}

	case CmdLoadROM:
		if err := emu.GBA.AttachROM(cmd.Data); err != nil {
			emu.notify.Error(err)
		}

	case CmdLoadBackup:
		emu.GBA.Cart.LoadBackup(cmd.Data)

	case CmdBackupType:
		// ignored once emulation has started
		if emu.started {
			break
		}
		if cmd.Value < 0 {
			if bt := cartridge.DetectBackup(emu.GBA.Cart.ROM); bt != cartridge.BackupNone {
				emu.GBA.Cart.SetBackupType(bt, cartridge.BackupSourceAuto)
			}
		} else {
			emu.GBA.Cart.SetBackupType(cartridge.BackupType(cmd.Value), cartridge.BackupSourceManual)
		}

	case CmdReset:
		emu.GBA.Reset()
		emu.started = false

	case CmdRun:
		emu.started = true
		emu.state = Running
		emu.speed = cmd.Value
		emu.limiter.SetSpeed(cmd.Value)

	case CmdPause:
		emu.state = Paused

	case CmdKeyInput:
		emu.GBA.Input.Set(cmd.Key, cmd.Pressed)

	case CmdQuicksave:
		if err := emu.notify.PersistQuicksave(cmd.Path, emu.GBA.Quicksave()); err != nil {
			emu.notify.Error(curated.Errorf("quicksave: %v", err))
		}

	case CmdQuickload:
		data, err := emu.notify.FetchQuicksave(cmd.Path)
		if err != nil {
			emu.notify.Error(curated.Errorf("quickload: %v", err))
			break
		}
		if err := emu.GBA.Quickload(data); err != nil {
			emu.notify.Error(err)
		}

	case CmdAudioResampleFreq:
		emu.GBA.APU.SetResampleFreq(uint32(cmd.Value))

	case CmdColorCorrection:
		emu.GBA.PPU.ColorCorrection = cmd.On

	case CmdRTC:
		// ignored once emulation has started
		if emu.started {
			break
		}
		switch cmd.Value {
		case RTCAutoDetect:
			emu.GBA.RTCAutoDetect = true
			emu.GBA.RTCForced = false
		case RTCEnabled:
			emu.GBA.RTCAutoDetect = false
			emu.GBA.RTCForced = true
		case RTCDisabled:
			emu.GBA.RTCAutoDetect = false
			emu.GBA.RTCForced = false
		}

	default:
		emu.notify.Error(curated.Errorf("emulation: unknown command type %d", cmd.Type))
		logger.Logf(logger.Allow, "emulation", "unknown command type %d", cmd.Type)
	}
}

// flushBackup pushes dirty backup storage out to the front-end.
func (emu *Emulator) flushBackup() {
	b := emu.GBA.Cart.Backup
	if b == nil || !b.Dirty() {
		return
	}
	emu.notify.PersistBackup(b.Data())
	b.Flushed()
}
