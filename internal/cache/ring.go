package cache

type ring struct {
	buf   []ValidationResult
	start int
	size  int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]ValidationResult, capacity)}
}

func (r *ring) push(v ValidationResult) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = v
		r.size++
		return
	}

	// full: overwrite the oldest
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

func (r *ring) items() []ValidationResult {
	out := make([]ValidationResult, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)].clone())
	}
	return out
}
