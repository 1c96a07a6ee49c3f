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

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/seliware/gopheradvance/logger"
	"github.com/seliware/gopheradvance/playmode"
	"github.com/seliware/gopheradvance/statsview"
	"github.com/seliware/gopheradvance/version"
)

func main() {
	// sub-mode selection in the style of a version control tool. the
	// default mode is RUN
	mode := "RUN"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		mode = strings.ToUpper(args[0])
		args = args[1:]
	}

	var err error

	switch mode {
	case "RUN", "PLAY":
		err = play(args)
	case "VERSION":
		fmt.Printf("GopherAdvance (%s)\n", version.Version)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %s. available modes: RUN, PLAY, VERSION\n", mode)
		os.Exit(10)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(10)
	}
}

func play(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)

	bios := fs.String("bios", "gba_bios.bin", "path to the BIOS image")
	save := fs.String("save", "", "path to the backup save file (defaults to the ROM path with a .sav suffix)")
	scale := fs.Int("scale", 3, "window scale factor")
	speed := fs.Int("speed", 1, "speed multiplier. 0 uncaps the frame rate")
	audio := fs.String("audio", "sdl", "audio backend: sdl, oto or none")
	wavFile := fs.String("wav", "", "record audio to a WAV file")
	colorCorrection := fs.Bool("colorcorrection", false, "approximate the AGB LCD response")
	resample := fs.Int("resample", 0, "audio resample frequency (0 for the default)")
	stats := fs.Bool("statsview", false, "run the stats server")
	echoLog := fs.Bool("log", false, "echo the log to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *echoLog {
		logger.SetEcho(os.Stderr)
	}

	if *stats {
		statsview.Launch(os.Stdout)
	}

	rom := fs.Arg(0)

	backup := *save
	if backup == "" && rom != "" {
		backup = strings.TrimSuffix(rom, ".gba") + ".sav"
	}

	return playmode.Play(playmode.Options{
		BIOSFile:        *bios,
		ROMFile:         rom,
		BackupFile:      backup,
		Scale:           *scale,
		Speed:           *speed,
		AudioBackend:    *audio,
		WavFile:         *wavFile,
		ColorCorrection: *colorCorrection,
		ResampleFreq:    *resample,
	})
}
