package sim

import "testing"

func TestRecorderLayout(t *testing.T) {
	r := NewRecorder(4, 6, 1)

	if r.Cols() != 14 {
		t.Fatalf("expected 14 columns for dof 6, dimU 1, got %d", r.Cols())
	}
	if r.Cap() != 4 {
		t.Fatalf("expected capacity 4, got %d", r.Cap())
	}
	if r.Len() != 0 {
		t.Fatalf("fresh recorder should be empty, got %d rows", r.Len())
	}

	eta := State{1, 2, 3, 4, 5, 6}
	nu := State{7, 8, 9, 10, 11, 12}
	uc := Control{13}
	ua := Control{14}

	if err := r.Append(eta, nu, uc, ua); err != nil {
		t.Fatal(err)
	}

	row := r.Row(0)
	for j, want := range []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14} {
		if row[j] != want {
			t.Errorf("row[%d] = %f, want %f", j, row[j], want)
		}
	}

	if got := r.Eta(0); got[5] != 6 {
		t.Errorf("Eta(0)[5] = %f, want 6", got[5])
	}
	if got := r.Nu(0); got[0] != 7 {
		t.Errorf("Nu(0)[0] = %f, want 7", got[0])
	}
	if got := r.UControl(0); got[0] != 13 {
		t.Errorf("UControl(0)[0] = %f, want 13", got[0])
	}
	if got := r.UActual(0); got[0] != 14 {
		t.Errorf("UActual(0)[0] = %f, want 14", got[0])
	}
}

func TestRecorderRowIsCopy(t *testing.T) {
	r := NewRecorder(2, 6, 1)
	r.Append(State{1, 0, 0, 0, 0, 0}, make(State, 6), Control{0}, Control{0})

	row := r.Row(0)
	row[0] = 99
	if r.Row(0)[0] != 1 {
		t.Error("Row should return a copy")
	}
}

func TestRecorderCapacityExhausted(t *testing.T) {
	r := NewRecorder(1, 6, 1)
	eta := make(State, 6)
	nu := make(State, 6)
	u := Control{0}

	if err := r.Append(eta, nu, u, u); err != nil {
		t.Fatal(err)
	}
	if err := r.Append(eta, nu, u, u); err == nil {
		t.Error("expected error when appending past capacity")
	}
}

func TestRecorderDimensionMismatch(t *testing.T) {
	r := NewRecorder(2, 6, 1)

	if err := r.Append(make(State, 5), make(State, 6), Control{0}, Control{0}); err == nil {
		t.Error("expected error for short eta")
	}
	if err := r.Append(make(State, 6), make(State, 6), Control{0, 0}, Control{0}); err == nil {
		t.Error("expected error for wide control")
	}
	if r.Len() != 0 {
		t.Errorf("failed appends should not record rows, got %d", r.Len())
	}
}

func TestRecorderColumn(t *testing.T) {
	r := NewRecorder(3, 6, 1)
	for i := 0; i < 3; i++ {
		eta := make(State, 6)
		eta[5] = float64(i)
		r.Append(eta, make(State, 6), Control{0}, Control{0})
	}

	col := r.Column(5)
	if len(col) != 3 || col[0] != 0 || col[1] != 1 || col[2] != 2 {
		t.Errorf("unexpected yaw column %v", col)
	}
}

func TestRecorderRows(t *testing.T) {
	r := NewRecorder(2, 6, 1)
	r.Append(make(State, 6), make(State, 6), Control{1}, Control{2})
	r.Append(make(State, 6), make(State, 6), Control{3}, Control{4})

	rows := r.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][12] != 1 || rows[1][12] != 3 {
		t.Errorf("unexpected control columns: %v, %v", rows[0][12], rows[1][12])
	}
}
