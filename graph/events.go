package graph

// eventQueue keeps callbacks sorted by frame; equal frames fire in insertion order.
type eventQueue struct {
	events []frameEvent
}

type frameEvent struct {
	frame int64
	f     func()
}

func (q *eventQueue) push(frame int64, f func()) {
	i := len(q.events)
	for i > 0 && q.events[i-1].frame > frame {
		i--
	}
	q.events = append(q.events, frameEvent{})
	copy(q.events[i+1:], q.events[i:])
	q.events[i] = frameEvent{frame, f}
}

func (q *eventQueue) fire(frame int64) {
	for len(q.events) > 0 && q.events[0].frame <= frame {
		e := q.events[0]
		q.events = q.events[1:]
		e.f()
	}
}

func (q *eventQueue) len() int {
	return len(q.events)
}
