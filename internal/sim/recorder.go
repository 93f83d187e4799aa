package sim

import "fmt"

// Recorder is the append-only state-history table. One row per sample with
// the fixed column layout [eta(6) | nu(6) | u_control(dimU) | u_actual(dimU)].
// The buffer is preallocated for the full run so the row-count invariant is
// explicit and reallocation never happens inside the loop.
type Recorder struct {
	dof  int
	dimU int
	cols int
	rows int
	cap  int
	data []float64
}

func NewRecorder(rows, dof, dimU int) *Recorder {
	cols := 2*dof + 2*dimU
	return &Recorder{
		dof:  dof,
		dimU: dimU,
		cols: cols,
		cap:  rows,
		data: make([]float64, rows*cols),
	}
}

func (r *Recorder) Len() int  { return r.rows }
func (r *Recorder) Cap() int  { return r.cap }
func (r *Recorder) Cols() int { return r.cols }
func (r *Recorder) DimU() int { return r.dimU }

// Append writes one sample row. It fails if the preallocated capacity is
// exhausted or a signal has the wrong dimension.
func (r *Recorder) Append(eta, nu State, uControl, uActual Control) error {
	if r.rows >= r.cap {
		return fmt.Errorf("recorder: table full (%d rows)", r.cap)
	}
	if len(eta) != r.dof || len(nu) != r.dof {
		return fmt.Errorf("recorder: state dimension %d/%d, want %d", len(eta), len(nu), r.dof)
	}
	if len(uControl) != r.dimU || len(uActual) != r.dimU {
		return fmt.Errorf("recorder: control dimension %d/%d, want %d", len(uControl), len(uActual), r.dimU)
	}
	base := r.rows * r.cols
	copy(r.data[base:], eta)
	copy(r.data[base+r.dof:], nu)
	copy(r.data[base+2*r.dof:], uControl)
	copy(r.data[base+2*r.dof+r.dimU:], uActual)
	r.rows++
	return nil
}

// Row returns row i as a copy.
func (r *Recorder) Row(i int) []float64 {
	row := make([]float64, r.cols)
	copy(row, r.data[i*r.cols:(i+1)*r.cols])
	return row
}

func (r *Recorder) Eta(i int) State {
	return State(r.Row(i)[:r.dof])
}

func (r *Recorder) Nu(i int) State {
	return State(r.Row(i)[r.dof : 2*r.dof])
}

func (r *Recorder) UControl(i int) Control {
	return Control(r.Row(i)[2*r.dof : 2*r.dof+r.dimU])
}

func (r *Recorder) UActual(i int) Control {
	return Control(r.Row(i)[2*r.dof+r.dimU:])
}

// Column extracts one column over all recorded rows, for plotting.
func (r *Recorder) Column(j int) []float64 {
	col := make([]float64, r.rows)
	for i := 0; i < r.rows; i++ {
		col[i] = r.data[i*r.cols+j]
	}
	return col
}

// Rows returns the whole table as a slice of row copies.
func (r *Recorder) Rows() [][]float64 {
	out := make([][]float64, r.rows)
	for i := range out {
		out[i] = r.Row(i)
	}
	return out
}
