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

package curated_test

import (
	"testing"

	"github.com/seliware/gopheradvance/curated"
	"github.com/seliware/gopheradvance/test"
)

const testPattern = "test: %v"
const otherPattern = "other: %v"

func TestIs(t *testing.T) {
	err := curated.Errorf(testPattern, 10)
	test.Equate(t, curated.Is(err, testPattern), true)
	test.Equate(t, curated.Is(err, otherPattern), false)
	test.Equate(t, curated.IsAny(err), true)

	test.Equate(t, curated.Is(nil, testPattern), false)
	test.Equate(t, curated.IsAny(nil), false)
}

func TestHas(t *testing.T) {
	inner := curated.Errorf(testPattern, 10)
	outer := curated.Errorf(otherPattern, inner)

	test.Equate(t, curated.Has(outer, testPattern), true)
	test.Equate(t, curated.Has(outer, otherPattern), true)
	test.Equate(t, curated.Is(outer, testPattern), false)
}

func TestMessageDeduplication(t *testing.T) {
	inner := curated.Errorf("cartridge: %v", "bad header")
	outer := curated.Errorf("cartridge: %v", inner)

	// the duplicated message head collapses
	test.Equate(t, outer.Error(), "cartridge: bad header")
}
