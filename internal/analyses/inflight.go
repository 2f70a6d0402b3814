package analyses

import "sync"

// Stage names for the in-flight guard. Interpretation is keyed by record id;
// extraction runs before a record exists and is keyed by owner id.
const (
	stageExtraction     = "extraction"
	stageInterpretation = "interpretation"
)

// inflightGuard rejects a second concurrent run of the same stage for the
// same key. Distinct stages on one key may run at the same time.
type inflightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{active: make(map[string]struct{})}
}

// acquire marks the stage as running for the key. It returns ErrStageInFlight
// when the same stage is already running for that key.
func (g *inflightGuard) acquire(id, stage string) (release func(), err error) {
	key := id + "/" + stage
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return nil, ErrStageInFlight
	}
	g.active[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.active, key)
		g.mu.Unlock()
	}, nil
}
