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

package logger_test

import (
	"strings"
	"testing"

	"github.com/seliware/gopheradvance/logger"
	"github.com/seliware/gopheradvance/test"
)

func TestLogAndWrite(t *testing.T) {
	logger.Clear()

	logger.Log(logger.Allow, "test", "message one")
	logger.Logf(logger.Allow, "test", "message %d", 2)

	s := strings.Builder{}
	logger.Write(&s)

	test.Equate(t, strings.Contains(s.String(), "test: message one"), true)
	test.Equate(t, strings.Contains(s.String(), "test: message 2"), true)
}

func TestRepeatCollapsing(t *testing.T) {
	logger.Clear()

	for i := 0; i < 5; i++ {
		logger.Log(logger.Allow, "bus", "open bus read")
	}

	logger.BorrowLog(func(entries []logger.Entry) {
		test.Equate(t, len(entries), 1)
		test.Equate(t, entries[0].Repeated, 4)
	})
}

func TestTail(t *testing.T) {
	logger.Clear()

	logger.Log(logger.Allow, "a", "first")
	logger.Log(logger.Allow, "b", "second")
	logger.Log(logger.Allow, "c", "third")

	s := strings.Builder{}
	logger.Tail(&s, 2)

	test.Equate(t, strings.Contains(s.String(), "first"), false)
	test.Equate(t, strings.Contains(s.String(), "second"), true)
	test.Equate(t, strings.Contains(s.String(), "third"), true)
}

type denied struct{}

func (_ denied) AllowLogging() bool { return false }

func TestPermission(t *testing.T) {
	logger.Clear()

	logger.Log(denied{}, "quiet", "should not appear")

	s := strings.Builder{}
	logger.Write(&s)
	test.Equate(t, s.String(), "")
}
