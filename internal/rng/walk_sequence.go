package rng

// WalkSequence is the original dummy plugin's alternative generation
// strategy: one Mersenne-Twister stream reused across an entire tree
// walk instead of one freshly-seeded MT19937 per Node. It is not used
// by the generator (the documented, testable contract is the per-node
// stream in NewMT19937FromNodeSeed); it exists only so a demo CLI can
// compare the two strategies' draw counts and timing cheaply. Reusing
// it does not change any Node's deterministic content, since nothing
// in the generator consults it.
type WalkSequence struct {
	*MT19937
	nodesVisited uint64
}

// NewWalkSequence seeds a single whole-walk generator from base, the
// way the original Factory instance seeds its one Mersenne-Twister.
func NewWalkSequence(base uint64) *WalkSequence {
	return &WalkSequence{MT19937: NewMT19937FromNodeSeed(base)}
}

// VisitNode records that one more node's worth of draws has been
// taken from the stream.
func (w *WalkSequence) VisitNode() { w.nodesVisited++ }

// NodesVisited returns how many nodes VisitNode has been called for.
func (w *WalkSequence) NodesVisited() uint64 { return w.nodesVisited }
