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

package mesgq_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
	"github.com/jetsetilly/nugopher/test"
)

// a queue of capacity 8 that receives 9 non-blocking sends. the 9th send
// fails and the first 8 messages are intact and in order
func TestNonBlockingCapacity(t *testing.T) {
	q := mesgq.NewQueue("test", 8)
	test.ExpectEquality(t, q.Cap(), 8)

	for i := range 8 {
		err := q.SendNB(mesgq.Message{Kind: mesgq.Kind(i), Payload: i * 10})
		test.ExpectSuccess(t, err, i)
	}

	err := q.SendNB(mesgq.Message{Kind: 8})
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, mesgq.QueueFull))
	test.ExpectEquality(t, q.Len(), 8)

	for i := range 8 {
		m, ok := q.RecvNB()
		test.DemandSuccess(t, ok, i)
		test.ExpectEquality(t, m.Kind, mesgq.Kind(i))
		test.ExpectEquality(t, m.Payload.(int), i*10)
	}

	_, ok := q.RecvNB()
	test.ExpectFailure(t, ok)
}

func TestDefaultCapacity(t *testing.T) {
	q := mesgq.NewQueue("test", 0)
	test.ExpectEquality(t, q.Cap(), mesgq.DefaultCapacity)
}

// a blocking send to a full queue completes once the consumer frees a slot
func TestBlockingSend(t *testing.T) {
	q := mesgq.NewQueue("test", 1)
	ctx := context.Background()

	test.ExpectSuccess(t, q.Send(ctx, mesgq.Message{Kind: 1}))

	sent := make(chan error)
	go func() {
		sent <- q.Send(ctx, mesgq.Message{Kind: 2})
	}()

	// the second send should still be blocked
	select {
	case <-sent:
		t.Fatalf("send to full queue did not block")
	case <-time.After(20 * time.Millisecond):
	}

	m, err := q.Recv(ctx)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m.Kind, mesgq.Kind(1))

	test.ExpectSuccess(t, <-sent)

	m, err = q.Recv(ctx)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m.Kind, mesgq.Kind(2))
}

// blocked senders and receivers are released by the context
func TestCancellation(t *testing.T) {
	q := mesgq.NewQueue("test", 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Recv(ctx)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, mesgq.Cancelled))

	test.ExpectSuccess(t, q.SendNB(mesgq.Message{}))
	err = q.Send(ctx, mesgq.Message{})
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, mesgq.Cancelled))

	// a done context does not prevent a message being received if one is
	// waiting
	_, err = q.Recv(ctx)
	test.ExpectSuccess(t, err)
}

// messages from a single sender arrive in the order they were sent, even when
// other senders are interleaved
func TestSingleSenderOrder(t *testing.T) {
	q := mesgq.NewQueue("test", 8)
	ctx := context.Background()

	const senders = 4
	const count = 100

	var wg sync.WaitGroup
	for s := range senders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range count {
				q.Send(ctx, mesgq.Message{Kind: mesgq.Kind(s), Payload: i})
			}
		}()
	}

	next := make([]int, senders)
	for range senders * count {
		m, err := q.Recv(ctx)
		test.DemandSuccess(t, err)
		s := int(m.Kind)
		test.ExpectEquality(t, m.Payload.(int), next[s], s)
		next[s]++
	}

	wg.Wait()
	for s := range senders {
		test.ExpectEquality(t, next[s], count, s)
	}
}

func TestDrain(t *testing.T) {
	q := mesgq.NewQueue("test", 4)
	q.SendNB(mesgq.Message{Kind: 1})
	q.SendNB(mesgq.Message{Kind: 2})

	d := q.Drain()
	test.DemandEquality(t, len(d), 2)
	test.ExpectEquality(t, d[0].Kind, mesgq.Kind(1))
	test.ExpectEquality(t, d[1].Kind, mesgq.Kind(2))
	test.ExpectEquality(t, q.Len(), 0)
}
