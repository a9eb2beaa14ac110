package trainer

import "fmt"

// Weight bounds of the 16-bit weight space.
const (
	MinWeight = -32768
	MaxWeight = 32767

	// shiftCount is the arithmetic right shift applied after every interior
	// pair reduction. Go's >> on signed integers is sign-preserving, which is
	// exactly the required semantics.
	shiftCount = 15
)

// Digraph reduces one rectangular input matrix to a single scalar through a
// logarithmically shrinking pipeline of fixed-point sums. The input layer is
// consumed twice: each row of inputs feeds two first-layer values through two
// separate weight banks. Every later layer halves (rounding up) until width 1.
type Digraph struct {
	rows, cols int

	// inputs is the row-major matrix, immutable after construction.
	inputs []uint16

	// values holds every layer value, layer after layer. Only Evaluate
	// mutates it, so a digraph may be evaluated concurrently with others.
	values []int64

	// weights is a read-only view of the crafter's current vector, bound once
	// per run. The trainer's cycle barrier guarantees it is never mutated
	// while an evaluation is in flight.
	weights []int16

	layerWidths []int
}

// LayerWidths returns the widths of every pipeline layer for a matrix of the
// given row count: 2·rows, then repeated halving (rounding up) down to 1.
func LayerWidths(rows int) []int {
	widths := []int{2 * rows}
	for w := 2 * rows; w > 1; {
		w = (w + 1) / 2
		widths = append(widths, w)
	}
	return widths
}

// RequiredWeightsCount returns the length of the weight vector a matrix of
// the given dimensions consumes: two banks of cols weights per row on the
// input layer, then one weight per value on every layer except the sink,
// which has no outgoing weight.
func RequiredWeightsCount(rows, cols int) int {
	count := 2 * rows * cols
	for _, w := range LayerWidths(rows) {
		count += w
	}
	return count - 1
}

// NewDigraph builds the pipeline for one input matrix given in row-major
// order. Dimensions below 2x2 are rejected.
func NewDigraph(rows, cols int, inputs []uint16) (*Digraph, error) {
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("%w: matrix %dx%d below minimum 2x2", ErrBadFormat, rows, cols)
	}
	if len(inputs) != rows*cols {
		return nil, fmt.Errorf("%w: %d inputs for a %dx%d matrix", ErrBadFormat, len(inputs), rows, cols)
	}

	widths := LayerWidths(rows)
	total := 0
	for _, w := range widths {
		total += w
	}

	return &Digraph{
		rows:        rows,
		cols:        cols,
		inputs:      inputs,
		values:      make([]int64, total),
		layerWidths: widths,
	}, nil
}

// Rows returns the input matrix row count.
func (d *Digraph) Rows() int { return d.rows }

// Cols returns the input matrix column count.
func (d *Digraph) Cols() int { return d.cols }

// Inputs returns the row-major input matrix. Callers must not mutate it.
func (d *Digraph) Inputs() []uint16 { return d.inputs }

// RequiredWeightsCount returns the weight count this digraph consumes.
func (d *Digraph) RequiredWeightsCount() int {
	return RequiredWeightsCount(d.rows, d.cols)
}

// BindWeights attaches the weight vector read by Evaluate.
func (d *Digraph) BindWeights(weights []int16) error {
	if len(weights) != d.RequiredWeightsCount() {
		return fmt.Errorf("%w: digraph needs %d weights, got %d",
			ErrWeightsSizeMismatch, d.RequiredWeightsCount(), len(weights))
	}
	d.weights = weights
	return nil
}

// Evaluate runs the full pipeline under the bound weights, leaving the scalar
// result in Sink. It reads only inputs and weights and writes only the owned
// intermediate buffer, performing no allocation.
func (d *Digraph) Evaluate() {
	weights := d.weights
	w := 0

	// Input layer: per row, two egress sums over separate weight banks.
	v := 0
	for r := 0; r < d.rows; r++ {
		row := d.inputs[r*d.cols : (r+1)*d.cols]
		for egress := 0; egress < 2; egress++ {
			var sum int64
			for _, in := range row {
				sum += int64(in) * int64(weights[w])
				w++
			}
			d.values[v] = sum
			v++
		}
	}

	// Interior layers: pair reductions with a fresh weight per ingress value,
	// odd tails forwarded alone.
	ingress := 0
	for layer := 1; layer < len(d.layerWidths); layer++ {
		width := d.layerWidths[layer-1]
		for j := 0; j < width/2; j++ {
			a := d.values[ingress+2*j] * int64(weights[w])
			b := d.values[ingress+2*j+1] * int64(weights[w+1])
			w += 2
			d.values[v] = (a + b) >> shiftCount
			v++
		}
		if width%2 == 1 {
			d.values[v] = (d.values[ingress+width-1] * int64(weights[w])) >> shiftCount
			w++
			v++
		}
		ingress += width
	}
}

// Sink returns the final pipeline scalar produced by the last Evaluate.
func (d *Digraph) Sink() int64 {
	return d.values[len(d.values)-1]
}
