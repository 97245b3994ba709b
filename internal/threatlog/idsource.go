package threatlog

import (
	"math/rand"
	"sync"
	"time"
)

// IDSource generates threat record identifiers of the form "N-" followed by
// 8 uppercase alphanumeric characters. Identifiers are generated fresh per
// call but are not guaranteed collision-free; at this system's scale the
// collision probability is accepted as negligible.
type IDSource interface {
	NextID() string
}

const (
	idPrefix  = "N-"
	idLength  = 8
	idCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// randIDSource is the default IDSource backed by a seeded math/rand source.
// rand.Rand is not safe for concurrent use, so NextID serializes access.
type randIDSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandIDSource returns an IDSource seeded from the wall clock.
func NewRandIDSource() IDSource {
	return &randIDSource{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededIDSource returns a deterministic IDSource for tests.
func NewSeededIDSource(seed int64) IDSource {
	return &randIDSource{rnd: rand.New(rand.NewSource(seed))}
}

func (s *randIDSource) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, idLength)
	for i := range buf {
		buf[i] = idCharset[s.rnd.Intn(len(idCharset))]
	}
	return idPrefix + string(buf)
}
