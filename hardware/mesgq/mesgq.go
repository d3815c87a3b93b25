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

package mesgq

import (
	"context"
	"fmt"

	"github.com/jetsetilly/nugopher/curated"
)

// DefaultCapacity is the capacity of a queue when no other capacity is
// specified.
const DefaultCapacity = 8

// Sentinal error patterns.
const (
	QueueFull = "mesgq: %s: queue is full"
	Cancelled = "mesgq: %s: %v"
)

// Kind identifies the type of a message. Different parts of the system
// allocate their own kind values.
type Kind int16

// Message is the unit of communication. Once sent, a message should not be
// altered by the sender. Ownership of anything referenced by Payload passes to
// the receiver.
type Message struct {
	Kind    Kind
	Payload any
}

func (m Message) String() string {
	return fmt.Sprintf("%#04x: %v", uint16(m.Kind), m.Payload)
}

// Queue is a bounded FIFO of messages.
type Queue struct {
	name string
	ch   chan Message
}

// NewQueue is the preferred method of initialisation for the Queue type. The
// name is used in error messages. A capacity of zero or less will result in
// a queue of DefaultCapacity.
func NewQueue(name string, capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		name: name,
		ch:   make(chan Message, capacity),
	}
}

func (q *Queue) String() string {
	return q.name
}

// Cap returns the capacity of the queue.
func (q *Queue) Cap() int {
	return cap(q.ch)
}

// Len returns the number of messages waiting in the queue. The value is out
// of date as soon as it is returned if there is more than one goroutine
// using the queue.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Send a message to the queue. Blocks while the queue is full. The only error
// returned is when the context is done before the message could be queued.
func (q *Queue) Send(ctx context.Context, m Message) error {
	// try without involving the context first. this is the common case and
	// means a cancelled context does not prevent a send to a queue with
	// space in it
	select {
	case q.ch <- m:
		return nil
	default:
	}

	select {
	case q.ch <- m:
		return nil
	case <-ctx.Done():
		return curated.Errorf(Cancelled, q.name, ctx.Err())
	}
}

// SendNB sends a message to the queue without blocking. Returns a QueueFull
// error if there is no space in the queue. The message is not queued in that
// case.
func (q *Queue) SendNB(m Message) error {
	select {
	case q.ch <- m:
		return nil
	default:
		return curated.Errorf(QueueFull, q.name)
	}
}

// Recv blocks until a message is available. The only error returned is when
// the context is done before a message arrives.
func (q *Queue) Recv(ctx context.Context) (Message, error) {
	select {
	case m := <-q.ch:
		return m, nil
	default:
	}

	select {
	case m := <-q.ch:
		return m, nil
	case <-ctx.Done():
		return Message{}, curated.Errorf(Cancelled, q.name, ctx.Err())
	}
}

// RecvNB returns the next message if one is available. The second return
// value is false if the queue was empty.
func (q *Queue) RecvNB() (Message, bool) {
	select {
	case m := <-q.ch:
		return m, true
	default:
		return Message{}, false
	}
}

// C returns the receive side of the queue for use in select statements. Only
// the primary consumer of the queue should use this.
func (q *Queue) C() <-chan Message {
	return q.ch
}

// Drain removes all waiting messages from the queue and returns them in the
// order they were sent.
func (q *Queue) Drain() []Message {
	var d []Message
	for {
		m, ok := q.RecvNB()
		if !ok {
			return d
		}
		d = append(d, m)
	}
}
