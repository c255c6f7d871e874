package pipeline

// FreeSlots returns the number of ring slots the producer may still fill.
// One slot is always kept empty, so that writeIdx == readIdx unambiguously
// means "empty" rather than "full": the result is always in [0, ringSize-1].
//
// Safe to call from either thread; it only reads the two indices.
func (p *Pipeline) FreeSlots() int {
	n := int32(len(p.slots))
	w := p.writeIdx.Load()
	r := p.readIdx.Load()
	occupied := (w - r + n) % n
	free := n - occupied - 1
	if free < 0 {
		free = 0
	}
	return int(free)
}

// notifyWriter wakes the producer's bounded wait without ever blocking the
// caller. The wake channel holds one pending token; more than that is
// redundant since the producer re-checks free slots anyway.
func (p *Pipeline) notifyWriter() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}
