package graph

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r2"
)

// Phase describes whether the layout simulation is still spending CPU.
type Phase int

const (
	// PhaseRunning means the simulation advances on every frame tick.
	PhaseRunning Phase = iota
	// PhaseIdle means the layout has settled and frame ticks can stop.
	PhaseIdle
)

// Return classification thresholds for node coloring. Values inside
// (Negative, Positive) fall into the neutral band.
const (
	PositiveThreshold = 0.001
	NegativeThreshold = -0.001
)

// Simulation tuning. Positions live in the unit square and are projected to
// terminal cells at paint time.
const (
	restLength    = 0.28 // spring rest length per edge
	springK       = 0.06
	repulsionK    = 0.0035 // inverse-distance pair repulsion
	centerK       = 0.02   // weak pull toward the viewport center
	damping       = 0.85   // velocity decay per tick
	warmupTicks   = 64     // ticks run before the first paint
	cooldownTicks = 30     // low-energy ticks before the sim may stop
	energyFloor   = 1e-5
	reheatKick    = 0.012 // velocity pulse issued once per natural stop
	minSeparation = 1e-4
)

type simNode struct {
	Node
	pos    r2.Vec
	vel    r2.Vec
	placed bool
}

// Engine owns the layout state of the correlation network. Nodes and edges
// enter exclusively through Ingest; positions are mutated exclusively by the
// engine's own tick.
type Engine struct {
	nodes []*simNode
	index map[string]*simNode
	edges []Edge
	topo  string

	selected string
	risk     map[string]struct{}

	phase     Phase
	coolTicks int
	reheated  bool

	// Last painted cell per node id, used for pointer hit-testing.
	cells map[string]cell

	rng *rand.Rand
	log zerolog.Logger
}

type cell struct{ x, y int }

// NewEngine creates an empty engine. It stays idle until the first snapshot
// arrives.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		index: make(map[string]*simNode),
		risk:  make(map[string]struct{}),
		cells: make(map[string]cell),
		phase: PhaseIdle,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		log:   log.With().Str("component", "graph_engine").Logger(),
	}
}

// Ingest atomically replaces the working node/edge set. Layout positions of
// surviving nodes are carried over; the simulation is re-energized only when
// the node/edge identity set actually changed, so cosmetic refreshes do not
// make the layout jump.
func (e *Engine) Ingest(s Snapshot) {
	key := topologyKey(s)
	changed := key != e.topo
	e.topo = key

	index := make(map[string]*simNode, len(s.Nodes))
	nodes := make([]*simNode, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		sn := &simNode{Node: n}
		if old, ok := e.index[n.ID]; ok {
			sn.pos, sn.vel, sn.placed = old.pos, old.vel, old.placed
		} else {
			sn.pos = seedPosition(n.ID)
			sn.placed = true
		}
		index[n.ID] = sn
		nodes = append(nodes, sn)
	}
	e.nodes = nodes
	e.index = index
	e.edges = append([]Edge(nil), s.Edges...)

	// Selection survives only while the node still exists.
	if e.selected != "" {
		if _, ok := e.index[e.selected]; !ok {
			e.selected = ""
		}
	}
	e.refreshRisk()

	if changed {
		e.coolTicks = 0
		e.reheated = false
		e.phase = PhaseRunning
		e.log.Debug().Int("nodes", len(nodes)).Int("edges", len(e.edges)).Msg("Topology changed, warming up layout")
		for i := 0; i < warmupTicks; i++ {
			e.step()
		}
	}
}

// seedPosition places a new node deterministically on a ring around the
// center, so the same universe lays out the same way across restarts.
func seedPosition(id string) r2.Vec {
	h := fnv.New32a()
	h.Write([]byte(id))
	sum := h.Sum32()
	angle := float64(sum%3600) / 3600 * 2 * math.Pi
	radius := 0.12 + float64((sum/3600)%100)/100*0.18
	return r2.Vec{
		X: 0.5 + radius*math.Cos(angle),
		Y: 0.5 + radius*math.Sin(angle),
	}
}

// Tick advances the simulation one step and manages the cooldown/reheat
// lifecycle. Returns the phase after the step so the caller knows whether to
// keep scheduling frames.
func (e *Engine) Tick() Phase {
	if e.phase == PhaseIdle {
		return PhaseIdle
	}
	ke := e.step()
	if ke >= energyFloor {
		e.coolTicks = 0
		return e.phase
	}
	e.coolTicks++
	if e.coolTicks < cooldownTicks {
		return e.phase
	}
	if !e.reheated {
		// One pulse per natural stop keeps the map subtly alive instead of
		// freezing into a still image.
		e.reheat()
		e.reheated = true
		e.coolTicks = 0
		return e.phase
	}
	e.phase = PhaseIdle
	return e.phase
}

// Phase reports whether the simulation still wants frame ticks.
func (e *Engine) Phase() Phase {
	return e.phase
}

// step runs one physics integration pass and returns total kinetic energy.
func (e *Engine) step() float64 {
	forces := make(map[string]r2.Vec, len(e.nodes))

	// Springs along edges.
	for _, edge := range e.edges {
		a, okA := e.index[edge.Source]
		b, okB := e.index[edge.Target]
		if !okA || !okB || a == b {
			continue
		}
		delta := r2.Sub(b.pos, a.pos)
		dist := r2.Norm(delta)
		if dist < minSeparation {
			continue
		}
		f := r2.Scale(springK*(dist-restLength)/dist, delta)
		forces[a.ID] = r2.Add(forces[a.ID], f)
		forces[b.ID] = r2.Sub(forces[b.ID], f)
	}

	// Pairwise inverse-distance repulsion.
	for i, a := range e.nodes {
		for _, b := range e.nodes[i+1:] {
			delta := r2.Sub(b.pos, a.pos)
			dist := r2.Norm(delta)
			if dist < minSeparation {
				// Coincident nodes get a tiny deterministic shove apart.
				delta = r2.Vec{X: minSeparation, Y: minSeparation}
				dist = r2.Norm(delta)
			}
			f := r2.Scale(repulsionK/(dist*dist), delta)
			forces[a.ID] = r2.Sub(forces[a.ID], f)
			forces[b.ID] = r2.Add(forces[b.ID], f)
		}
	}

	// Weak centering pull.
	center := r2.Vec{X: 0.5, Y: 0.5}
	for _, n := range e.nodes {
		pull := r2.Scale(centerK, r2.Sub(center, n.pos))
		forces[n.ID] = r2.Add(forces[n.ID], pull)
	}

	// Integrate with damping and keep nodes inside the viewport.
	var ke float64
	for _, n := range e.nodes {
		n.vel = r2.Scale(damping, r2.Add(n.vel, forces[n.ID]))
		n.pos = r2.Add(n.pos, n.vel)
		n.pos.X = clamp(n.pos.X, 0.03, 0.97)
		n.pos.Y = clamp(n.pos.Y, 0.05, 0.95)
		ke += n.vel.X*n.vel.X + n.vel.Y*n.vel.Y
	}
	return ke
}

func (e *Engine) reheat() {
	for _, n := range e.nodes {
		n.vel = r2.Add(n.vel, r2.Vec{
			X: (e.rng.Float64() - 0.5) * reheatKick,
			Y: (e.rng.Float64() - 0.5) * reheatKick,
		})
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// Select applies click semantics: clicking the selected node clears the
// selection, clicking a different node replaces it. Unknown ids are ignored.
func (e *Engine) Select(id string) {
	if _, ok := e.index[id]; !ok {
		return
	}
	if e.selected == id {
		e.selected = ""
	} else {
		e.selected = id
	}
	e.refreshRisk()
}

// SelectedID returns the selected node id, or "" when nothing is selected.
func (e *Engine) SelectedID() string {
	return e.selected
}

// RiskSet returns a copy of the one-hop contagion set of the selection.
func (e *Engine) RiskSet() map[string]struct{} {
	out := make(map[string]struct{}, len(e.risk))
	for id := range e.risk {
		out[id] = struct{}{}
	}
	return out
}

func (e *Engine) refreshRisk() {
	e.risk = Neighbors(e.edges, e.selected)
}

// Nodes returns the current node metadata, for panels that list assets.
func (e *Engine) Nodes() []Node {
	out := make([]Node, 0, len(e.nodes))
	for _, n := range e.nodes {
		out = append(out, n.Node)
	}
	return out
}
