package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueRoundTripUnboxed(t *testing.T) {
	for _, n := range []int64{0, 1, -1, maxUnboxedInt, minUnboxedInt, 12345, -98765} {
		v := FromInt64(n)
		require.True(t, v.IsInt())
		got, ok := v.AsInt64()
		require.True(t, ok)
		require.Equal(t, n, got)
	}
}

func TestValueRoundTripBoxed(t *testing.T) {
	for _, n := range []int64{maxUnboxedInt + 1, minUnboxedInt - 1, 1 << 62, -(1 << 62)} {
		v := FromInt64(n)
		require.False(t, v.IsInt())
		require.True(t, v.IsObj())
		got, ok := v.AsInt64()
		require.True(t, ok)
		require.Equal(t, n, got)
	}
}

func TestValueBoundaryIsUnboxedAtExactEdge(t *testing.T) {
	require.True(t, fitsUnboxed(maxUnboxedInt))
	require.False(t, fitsUnboxed(maxUnboxedInt+1))
	require.True(t, fitsUnboxed(minUnboxedInt))
	require.False(t, fitsUnboxed(minUnboxedInt-1))
}

func TestFromUint64RejectsTooLarge(t *testing.T) {
	_, err := FromUint64(1 << 63)
	require.Error(t, err)
	ve, ok := err.(*VMError)
	require.True(t, ok)
	require.Equal(t, CantRepresentAsUsize, ve.Kind)
}

func TestAsDoubleConvertsIntImplicitly(t *testing.T) {
	v := FromInt64(7)
	d, err := v.AsDouble()
	require.NoError(t, err)
	require.Equal(t, 7.0, d)
}

func TestAsDoubleRejectsNonNumber(t *testing.T) {
	v := FromObj(&String_{Val: "hi"})
	_, err := v.AsDouble()
	require.Error(t, err)
}

func TestEqualIdentityForHeapObjects(t *testing.T) {
	s := &String_{Val: "same"}
	a := FromObj(s)
	b := FromObj(s)
	c := FromObj(&String_{Val: "same"})
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestIllegalValue(t *testing.T) {
	require.True(t, Illegal.IsIllegal())
	require.False(t, FromInt64(0).IsIllegal())
}
