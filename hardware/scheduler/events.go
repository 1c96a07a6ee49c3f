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

package scheduler

// EventID identifies the handler that runs when an event fires. The set of
// handlers is closed. The hardware package maps each ID to the code that
// services it.
type EventID int

// List of valid EventID values.
const (
	EventNone EventID = iota

	// PPU line state machine
	EventHBlankStart
	EventLineEnd

	// timers
	EventTimerOverflow0
	EventTimerOverflow1
	EventTimerOverflow2
	EventTimerOverflow3

	// APU
	EventApuSample
	EventApuLength
	EventApuEnvelope
	EventApuSweep

	// DMA start after its two cycle setup delay
	EventDmaPending

	// IRQ line is sampled one cycle after IE/IF/IME changes
	EventIrqPoll

	EventSentinal
)

func (id EventID) String() string {
	switch id {
	case EventNone:
		return "none"
	case EventHBlankStart:
		return "hblank start"
	case EventLineEnd:
		return "line end"
	case EventTimerOverflow0:
		return "timer 0 overflow"
	case EventTimerOverflow1:
		return "timer 1 overflow"
	case EventTimerOverflow2:
		return "timer 2 overflow"
	case EventTimerOverflow3:
		return "timer 3 overflow"
	case EventApuSample:
		return "apu sample"
	case EventApuLength:
		return "apu length"
	case EventApuEnvelope:
		return "apu envelope"
	case EventApuSweep:
		return "apu sweep"
	case EventDmaPending:
		return "dma pending"
	case EventIrqPoll:
		return "irq poll"
	}
	return "unknown event"
}

// Event is an entry in the scheduler queue. The value returned by
// Schedule() can be used to cancel the event before it fires.
type Event struct {
	id      EventID
	data    uint64
	trigger uint64
	seq     uint64
	active  bool
}

// ID returns the EventID the event was scheduled with.
func (ev *Event) ID() EventID {
	return ev.id
}

// EventState is the serialisable form of a pending event, used by the
// quicksave file.
type EventState struct {
	ID        EventID
	Data      uint64
	Remaining uint64
}
