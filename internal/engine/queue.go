package engine

// Ordered-queue helpers shared by the job and craft schedulers. Queues
// are plain slices on the entities so they serialize with the rest of
// the state; these helpers keep the mutation discipline in one place:
// push at tail, peek/pop at head, remove anywhere by id.

func removeWhere[T any](q []*T, match func(*T) bool) ([]*T, *T, int) {
	for i, item := range q {
		if match(item) {
			removed := item
			q = append(q[:i], q[i+1:]...)
			return q, removed, i
		}
	}
	return q, nil, -1
}

func popHead[T any](q []*T) ([]*T, *T) {
	if len(q) == 0 {
		return q, nil
	}
	head := q[0]
	return q[1:], head
}
