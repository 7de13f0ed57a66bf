package restore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalise(t *testing.T) {
	for _, tt := range []struct{ in, want string }{
		{"_entity.", "_entity."},
		{"_entity", "_entity."},
		{" _Entity_Poly ", "_entity_poly."},
		{"", ""},
		{"  ", ""},
	} {
		assert.Equal(t, tt.want, Normalise(tt.in), "%q", tt.in)
	}
}

func TestLookup(t *testing.T) {
	r, ok := Lookup("_STRUCT_CONN")
	require.True(t, ok)
	assert.Equal(t, "_struct_conn.", r.Name)
	assert.Equal(t, KindAtom, r.Kind)
	assert.Len(t, r.Sites, 2)

	_, ok = Lookup("_refine_hist.")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	assert.Len(t, Supported(), 10)
	seen := make(map[string]bool)
	for _, r := range Rules {
		if r.DependsOn != "" {
			assert.True(t, seen[r.DependsOn], "%s comes before its parent %s", r.Name, r.DependsOn)
		}
		assert.False(t, seen[r.Name], "%s twice", r.Name)
		seen[r.Name] = true
	}
	assert.Equal(t, "residue", KindResidue.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func names(steps []Step) ([]string, []bool) {
	var n []string
	var e []bool
	for _, s := range steps {
		n = append(n, s.Rule.Name)
		e = append(e, s.Emit)
	}
	return n, e
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
		emit []bool
	}{
		{"one", []string{"_entity"}, []string{"_entity."}, []bool{true}},
		{"dependents first", []string{"_struct_conn.", "_entity_poly", "_entity."},
			[]string{"_entity.", "_entity_poly.", "_struct_asym.", "_struct_conn."},
			[]bool{true, true, false, true}},
		{"parent added", []string{"_pdbx_branch_scheme."},
			[]string{"_struct_asym.", "_pdbx_branch_scheme."}, []bool{false, true}},
		{"repeats", []string{"_entity", "_entity.", "_ENTITY."}, []string{"_entity."}, []bool{true}},
		{"independent", []string{"_pdbx_struct_mod_residue."},
			[]string{"_pdbx_struct_mod_residue."}, []bool{true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := Plan(tt.in)
			require.NoError(t, err)
			n, e := names(steps)
			assert.Equal(t, tt.want, n)
			assert.Equal(t, tt.emit, e)
		})
	}
}

func TestPlanAll(t *testing.T) {
	steps, err := Plan(Supported())
	require.NoError(t, err)
	n, _ := names(steps)
	assert.Equal(t, Supported(), n)
}

func TestPlanRefused(t *testing.T) {
	steps, err := Plan([]string{"_entity.", "_atom_site", "_refine."})
	assert.Nil(t, steps)
	require.True(t, errors.Is(err, ErrUnsupportedCategory))
	var uerr *UnsupportedCategoryError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, []string{"_atom_site.", "_refine."}, uerr.Categories)
}

func TestPlanEmpty(t *testing.T) {
	steps, err := Plan(nil)
	require.NoError(t, err)
	assert.Empty(t, steps)
}
