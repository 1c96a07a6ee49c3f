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

// Package scheduler paces every hardware subsystem in the emulation. Time is
// measured in cycles of the 16.78MHz system clock. Subsystems register
// events to fire at a future cycle and the events fire in trigger order,
// with ties broken by insertion order.
//
// Events are identified by an EventID rather than a callback function. The
// hardware package owns the dispatch table that maps an EventID to the code
// that runs when the event fires. Keeping functions out of the event queue
// means the queue can be serialised for the quicksave file.
package scheduler
