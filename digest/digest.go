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

// Package digest hashes the video output. A Video registered as a
// pixel renderer accumulates a running digest of every frame, giving
// tests and headless runs a cheap way to compare output without
// storing images.
package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/seliware/gopheradvance/display"
)

// Video implements the display.PixelRenderer interface with a running
// hash of all frames seen.
type Video struct {
	digest [sha1.Size]byte
	frames int
}

// NewVideo is the preferred method of initialisation for the Video
// type.
func NewVideo() *Video {
	return &Video{}
}

// NewFrame implements the display.PixelRenderer interface. The new
// frame is folded into the running digest.
func (dig *Video) NewFrame(frame *display.Frame) error {
	h := sha1.New()
	h.Write(dig.digest[:])
	h.Write(frame.Pixels[:])
	copy(dig.digest[:], h.Sum(nil))
	dig.frames++
	return nil
}

// EndRendering implements the display.PixelRenderer interface.
func (dig *Video) EndRendering() error {
	return nil
}

// Hash returns the current running digest as a hex string.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// Frames returns the number of frames folded into the digest.
func (dig *Video) Frames() int {
	return dig.frames
}
