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

package scheduler

import (
	"strings"

	"github.com/jetsetilly/nugopher/assert"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
)

// ClientKind is the set of message kinds a client wants to receive.
type ClientKind uint8

// List of valid ClientKind bits. A client normally has one of the two bits
// but may have both.
const (
	ClientRetrace ClientKind = 1 << iota
	ClientPreReset
)

func (k ClientKind) String() string {
	s := make([]string, 0, 2)
	if k&ClientRetrace != 0 {
		s = append(s, "retrace")
	}
	if k&ClientPreReset != 0 {
		s = append(s, "prereset")
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, "|")
}

// ClientID identifies a registered client. The zero value is never issued.
type ClientID uint32

type client struct {
	id     ClientID
	queue  *mesgq.Queue
	kind   ClientKind
	missed uint64
}

// Registry is an unordered collection of clients. A Registry is not safe for
// concurrent use. The Scheduler's registry is only used by the dispatch
// goroutine.
type Registry struct {
	owner   *assert.Owner
	clients []client
	next    ClientID
}

// NewRegistry is the preferred method of initialisation for the Registry type.
func NewRegistry() *Registry {
	return &Registry{
		owner: assert.NewOwner("client registry"),
	}
}

func (r *Registry) find(id ClientID) int {
	for i := range r.clients {
		if r.clients[i].id == id {
			return i
		}
	}
	return -1
}

// Add a client to the registry. The returned ID is used to remove or change
// the client.
func (r *Registry) Add(q *mesgq.Queue, kind ClientKind) ClientID {
	r.owner.Check()
	r.next++
	r.clients = append(r.clients, client{
		id:    r.next,
		queue: q,
		kind:  kind,
	})
	return r.next
}

// Remove the client from the registry. Removing a client that is not in the
// registry does nothing and returns false.
func (r *Registry) Remove(id ClientID) bool {
	r.owner.Check()
	i := r.find(id)
	if i < 0 {
		return false
	}
	last := len(r.clients) - 1
	r.clients[i] = r.clients[last]
	r.clients = r.clients[:last]
	return true
}

// SetKind changes the kind of messages the client receives. Returns false if
// the client is not in the registry.
func (r *Registry) SetKind(id ClientID, kind ClientKind) bool {
	r.owner.Check()
	i := r.find(id)
	if i < 0 {
		return false
	}
	r.clients[i].kind = kind
	return true
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	return len(r.clients)
}

// Missed returns the number of broadcasts missed by the client because its
// queue was full.
func (r *Registry) Missed(id ClientID) uint64 {
	i := r.find(id)
	if i < 0 {
		return 0
	}
	return r.clients[i].missed
}

// Broadcast sends the message to every client whose kind intersects with the
// kind argument. Sends never block. Returns the number of clients the
// message was delivered to and the number of clients that missed it.
func (r *Registry) Broadcast(kind ClientKind, m mesgq.Message) (delivered int, missed int) {
	r.owner.Check()
	for i := range r.clients {
		c := &r.clients[i]
		if c.kind&kind == 0 {
			continue
		}
		if err := c.queue.SendNB(m); err != nil {
			c.missed++
			missed++
			continue
		}
		delivered++
	}
	return delivered, missed
}
