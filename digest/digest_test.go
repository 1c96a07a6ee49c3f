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

package digest_test

import (
	"testing"

	"github.com/seliware/gopheradvance/digest"
	"github.com/seliware/gopheradvance/display"
	"github.com/seliware/gopheradvance/test"
)

func TestDigestIsOrderSensitive(t *testing.T) {
	a := &display.Frame{}
	b := &display.Frame{}
	b.Pixels[0] = 0xff

	d1 := digest.NewVideo()
	d1.NewFrame(a)
	d1.NewFrame(b)

	d2 := digest.NewVideo()
	d2.NewFrame(b)
	d2.NewFrame(a)

	if d1.Hash() == d2.Hash() {
		t.Errorf("digest is not sensitive to frame order")
	}
	test.Equate(t, d1.Frames(), 2)
}

func TestIdenticalStreamsMatch(t *testing.T) {
	a := &display.Frame{}
	a.Pixels[100] = 0x7f

	d1 := digest.NewVideo()
	d2 := digest.NewVideo()
	d1.NewFrame(a)
	d2.NewFrame(a)

	test.Equate(t, d1.Hash(), d2.Hash())
}
