// This file is part of nugopher.
//
// nugopher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// nugopher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with nugopher.  If not, see <https://www.gnu.org/licenses/>.

package voice

import (
	"sync"
)

// Utterance is what a Recognizer heard.
type Utterance struct {
	Heard string

	// volume of the utterance (0 to 0xffff)
	Level uint16

	// length of the utterance in milliseconds
	Time uint16
}

// Recognizer is implemented by anything that can listen for an utterance.
type Recognizer interface {
	// Listen is called on every retrace while data is being read. It returns
	// true once an utterance has been heard.
	Listen() (Utterance, bool)

	// Reset is called when reading starts and stops.
	Reset()
}

// Script is a Recognizer that hears a prepared list of utterances. Each
// utterance is heard after Delay calls to Listen().
type Script struct {
	crit       sync.Mutex
	utterances []Utterance
	delay      int
	countdown  int
}

// NewScript is the preferred method of initialisation for the Script type.
func NewScript(delay int, utterances ...Utterance) *Script {
	return &Script{
		utterances: utterances,
		delay:      delay,
		countdown:  delay,
	}
}

// Say adds an utterance to the end of the script.
func (s *Script) Say(u Utterance) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.utterances = append(s.utterances, u)
}

// Listen implements the Recognizer interface.
func (s *Script) Listen() (Utterance, bool) {
	s.crit.Lock()
	defer s.crit.Unlock()

	if len(s.utterances) == 0 {
		return Utterance{}, false
	}
	if s.countdown > 0 {
		s.countdown--
		return Utterance{}, false
	}

	u := s.utterances[0]
	s.utterances = s.utterances[1:]
	s.countdown = s.delay
	return u, true
}

// Reset implements the Recognizer interface.
func (s *Script) Reset() {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.countdown = s.delay
}
