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

// Package playmode is the minimal SDL front-end: a window showing the
// emulated LCD, keyboard input, and an audio sink draining the APU
// ring buffer. The emulator runs on its own goroutine; this package
// owns the main thread, as SDL requires.
package playmode

import (
	"os"
	"sync"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/seliware/gopheradvance/curated"
	"github.com/seliware/gopheradvance/display"
	"github.com/seliware/gopheradvance/emulation"
	"github.com/seliware/gopheradvance/logger"
)

// Options for a play session.
type Options struct {
	BIOSFile   string
	ROMFile    string
	BackupFile string

	Scale        int
	Speed        int
	AudioBackend string // "sdl", "oto" or "none"
	WavFile      string // record audio to this file if not empty

	ColorCorrection bool
	ResampleFreq    int
}

// screen double buffers frames between the emulation goroutine and the
// SDL main loop.
type screen struct {
	crit  sync.Mutex
	frame display.Frame
	fresh bool
}

// NewFrame implements the display.PixelRenderer interface.
func (scr *screen) NewFrame(frame *display.Frame) error {
	scr.crit.Lock()
	defer scr.crit.Unlock()
	scr.frame = *frame
	scr.fresh = true
	return nil
}

// EndRendering implements the display.PixelRenderer interface.
func (scr *screen) EndRendering() error {
	return nil
}

// files implements the emulation.Notify interface with plain files.
type files struct {
	backupFile string
}

func (f *files) Error(err error) {
	logger.Logf(logger.Allow, "playmode", "emulator: %v", err)
}

func (f *files) PersistQuicksave(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

func (f *files) FetchQuicksave(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// PersistBackup writes the save file atomically: a temporary file is
// renamed over the old save.
func (f *files) PersistBackup(data []byte) {
	if f.backupFile == "" {
		return
	}
	tmp := f.backupFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		logger.Logf(logger.Allow, "playmode", "backup: %v", err)
		return
	}
	if err := os.Rename(tmp, f.backupFile); err != nil {
		logger.Logf(logger.Allow, "playmode", "backup: %v", err)
	}
}

// Play runs a play session until the window is closed. Must be called
// from the main goroutine.
func Play(opts Options) error {
	if opts.Scale <= 0 {
		opts.Scale = 3
	}
	if opts.Speed < 0 {
		opts.Speed = 1
	}

	notify := &files{backupFile: opts.BackupFile}
	emu := emulation.NewEmulator(notify)

	scr := &screen{}
	emu.GBA.PPU.AddPixelRenderer(scr)

	// load the images before the emulator goroutine starts
	bios, err := os.ReadFile(opts.BIOSFile)
	if err != nil {
		return curated.Errorf("playmode: %v", err)
	}
	emu.Queue.Push(emulation.Command{Type: emulation.CmdLoadBIOS, Data: bios})

	if opts.ROMFile != "" {
		rom, err := os.ReadFile(opts.ROMFile)
		if err != nil {
			return curated.Errorf("playmode: %v", err)
		}
		emu.Queue.Push(emulation.Command{Type: emulation.CmdLoadROM, Data: rom})

		if opts.BackupFile != "" {
			if save, err := os.ReadFile(opts.BackupFile); err == nil {
				emu.Queue.Push(emulation.Command{Type: emulation.CmdLoadBackup, Data: save})
			}
		}
	}

	if opts.ResampleFreq > 0 {
		emu.Queue.Push(emulation.Command{Type: emulation.CmdAudioResampleFreq, Value: opts.ResampleFreq})
	}
	emu.Queue.Push(emulation.Command{Type: emulation.CmdColorCorrection, On: opts.ColorCorrection})
	emu.Queue.Push(emulation.Command{Type: emulation.CmdReset})
	emu.Queue.Push(emulation.Command{Type: emulation.CmdRun, Value: opts.Speed})

	// audio
	audio, err := newAudioBackend(opts.AudioBackend, emu.GBA.APU.Ring(), opts.WavFile)
	if err != nil {
		return err
	}
	defer audio.end()

	// the emulator gets its own goroutine; SDL keeps the main thread
	done := make(chan struct{})
	go func() {
		emu.Run()
		close(done)
	}()

	err = mainLoop(emu, scr, opts.Scale)

	emu.Queue.Push(emulation.Command{Type: emulation.CmdExit})
	<-done

	return err
}

// mainLoop owns the SDL window and the event pump.
func mainLoop(emu *emulation.Emulator, scr *screen, scale int) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return curated.Errorf("playmode: sdl: %v", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("GopherAdvance",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(display.Width*scale), int32(display.Height*scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return curated.Errorf("playmode: sdl: %v", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return curated.Errorf("playmode: sdl: %v", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		sdl.TEXTUREACCESS_STREAMING, display.Width, display.Height)
	if err != nil {
		return curated.Errorf("playmode: sdl: %v", err)
	}
	defer texture.Destroy()

	for {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			switch ev := ev.(type) {
			case *sdl.QuitEvent:
				return nil

			case *sdl.KeyboardEvent:
				if quit := handleKey(emu, ev); quit {
					return nil
				}
			}
		}

		scr.crit.Lock()
		if scr.fresh {
			texture.Update(nil, scr.frame.Pixels[:], display.Width*4)
			scr.fresh = false
		}
		scr.crit.Unlock()

		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()
	}
}
