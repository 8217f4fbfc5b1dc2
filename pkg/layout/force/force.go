// Package force resolves label overlap on a single line.
//
// Labels start at their ideal positions (the projected event time). The
// engine optionally spreads them over several layers, then removes the
// remaining overlap inside each layer by merging colliding labels into
// clusters and placing every cluster at the least-squares optimum of its
// members' ideal positions. Order inside a layer never changes, and
// labels in one layer are at least NodeSpacing apart.
package force

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/layout"
)

// Algorithm selects how overlap is handled.
const (
	AlgorithmOverlap = "overlap" // remove overlap (default)
	AlgorithmNone    = "none"    // keep ideal positions
)

// Options configures an Engine.
type Options struct {
	NodeSpacing float64  `json:"node_spacing" toml:"node_spacing"`
	MinPos      *float64 `json:"min_pos,omitempty" toml:"min_pos"`
	MaxPos      *float64 `json:"max_pos,omitempty" toml:"max_pos"`
	MaxLayers   int      `json:"max_layers,omitempty" toml:"max_layers"` // 0 means 1, negative means unlimited
	Algorithm   string   `json:"algorithm,omitempty" toml:"algorithm"`
}

// DefaultOptions keeps labels 3px apart and at or after position 0.
func DefaultOptions() Options {
	minPos := 0.0
	return Options{NodeSpacing: 3, MinPos: &minPos, MaxLayers: 1, Algorithm: AlgorithmOverlap}
}

// Validate checks option consistency.
func (o Options) Validate() error {
	switch o.Algorithm {
	case "", AlgorithmOverlap, AlgorithmNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown force algorithm %q (must be overlap or none)", o.Algorithm)
	}
	if o.NodeSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node spacing cannot be negative")
	}
	if o.MinPos != nil && o.MaxPos != nil && *o.MaxPos < *o.MinPos {
		return errors.New(errors.ErrCodeInvalidConfig, "max_pos %v is below min_pos %v", *o.MaxPos, *o.MinPos)
	}
	return nil
}

// Engine implements layout.Resolver.
type Engine struct {
	opts Options
}

// New creates an engine. Invalid options are reported by Resolve.
func New(opts Options) *Engine {
	if opts.Algorithm == "" {
		opts.Algorithm = AlgorithmOverlap
	}
	if opts.MaxLayers == 0 {
		opts.MaxLayers = 1
	}
	return &Engine{opts: opts}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Resolve sets Current and Layer on every node.
func (e *Engine) Resolve(nodes []*layout.Node) error {
	if err := e.opts.Validate(); err != nil {
		return err
	}
	for i, n := range nodes {
		if math.IsNaN(n.Position) || math.IsInf(n.Position, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "node %d has non-finite position %v", i, n.Position)
		}
		if n.Size < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "node %d has negative size %v", i, n.Size)
		}
		n.Current = n.Position
		n.Layer = 0
	}
	if len(nodes) == 0 || e.opts.Algorithm == AlgorithmNone {
		return nil
	}

	order := slices.Clone(nodes)
	slices.SortStableFunc(order, func(a, b *layout.Node) int {
		return cmp.Compare(a.Position, b.Position)
	})

	for _, l := range e.assignLayers(order) {
		e.removeOverlap(l)
	}
	return nil
}

// assignLayers distributes nodes, in order, to the first layer where the
// ideal interval fits after the layer's last node.
func (e *Engine) assignLayers(order []*layout.Node) [][]*layout.Node {
	if e.opts.MaxLayers == 1 {
		return [][]*layout.Node{order}
	}

	var (
		layers [][]*layout.Node
		ends   []float64
	)
	for _, n := range order {
		start := n.Position - n.Size/2
		target := -1
		for i, end := range ends {
			if end+e.opts.NodeSpacing <= start {
				target = i
				break
			}
		}
		if target < 0 {
			if e.opts.MaxLayers < 0 || len(layers) < e.opts.MaxLayers {
				layers = append(layers, nil)
				ends = append(ends, math.Inf(-1))
				target = len(layers) - 1
			} else {
				target = slices.Index(ends, slices.Min(ends))
			}
		}
		n.Layer = target
		layers[target] = append(layers[target], n)
		ends[target] = max(ends[target], n.Position+n.Size/2)
	}
	return layers
}

type cluster struct {
	nodes []*layout.Node
	width float64 // total extent including inner spacing
	sum   float64 // Σ (ideal start − offset inside cluster)
	start float64
}

func (c *cluster) end() float64 { return c.start + c.width }

// removeOverlap places clusters of colliding nodes at the mean of their
// members' ideal starts, clamped to the configured bounds.
func (e *Engine) removeOverlap(order []*layout.Node) {
	spacing := e.opts.NodeSpacing
	var stack []*cluster

	for _, n := range order {
		c := &cluster{nodes: []*layout.Node{n}, width: n.Size, sum: n.Position - n.Size/2}
		c.start = e.clamp(c.sum, c.width)

		for len(stack) > 0 {
			prev := stack[len(stack)-1]
			if prev.end()+spacing <= c.start {
				break
			}
			stack = stack[:len(stack)-1]
			shift := prev.width + spacing
			prev.sum += c.sum - float64(len(c.nodes))*shift
			prev.nodes = append(prev.nodes, c.nodes...)
			prev.width += spacing + c.width
			prev.start = e.clamp(prev.sum/float64(len(prev.nodes)), prev.width)
			c = prev
		}
		stack = append(stack, c)
	}

	for _, c := range stack {
		pos := c.start
		for _, n := range c.nodes {
			n.Current = pos + n.Size/2
			pos += n.Size + spacing
		}
	}
}

func (e *Engine) clamp(start, width float64) float64 {
	if e.opts.MaxPos != nil && start+width > *e.opts.MaxPos {
		start = *e.opts.MaxPos - width
	}
	if e.opts.MinPos != nil && start < *e.opts.MinPos {
		start = *e.opts.MinPos
	}
	return start
}

var _ layout.Resolver = (*Engine)(nil)
