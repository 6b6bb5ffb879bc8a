package piece

// Subscription identifies one connection to a Signal.
type Subscription uint64

type slot[T any] struct {
	id Subscription
	fn func(T)
}

// Signal delivers notifications synchronously, in connection order, on the
// calling goroutine. The zero value is ready to use.
type Signal[T any] struct {
	next  Subscription
	slots []slot[T]
}

func (s *Signal[T]) Connect(fn func(T)) Subscription {
	s.next++
	s.slots = append(s.slots, slot[T]{id: s.next, fn: fn})
	return s.next
}

func (s *Signal[T]) Disconnect(id Subscription) bool {
	for i, sl := range s.slots {
		if sl.id == id {
			s.slots = append(s.slots[:i:i], s.slots[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Signal[T]) DisconnectAll() {
	s.slots = nil
}

func (s *Signal[T]) Connected(id Subscription) bool {
	for _, sl := range s.slots {
		if sl.id == id {
			return true
		}
	}
	return false
}

func (s *Signal[T]) Len() int {
	return len(s.slots)
}

// Emit calls every connected slot with v. A slot disconnected by an earlier
// slot during the same Emit is not called.
func (s *Signal[T]) Emit(v T) {
	snapshot := s.slots
	for _, sl := range snapshot {
		if !s.Connected(sl.id) {
			continue
		}
		sl.fn(v)
	}
}
