package vm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smogvm/smog/pkg/bytecode"
	"github.com/smogvm/smog/pkg/classpath"
	"github.com/smogvm/smog/pkg/parser"
)

// fileSource is a test-only vm.ClassSource overlaying one in-memory
// class (the scenario file under test) on top of the real stdlib
// classpath, mirroring cmd/smog's fileOverlay.
type fileSource struct {
	base      *classpath.Path
	className string
	source    string
}

func (s *fileSource) Load(name string) (string, error) {
	if name == s.className {
		return s.source, nil
	}
	return s.base.Load(name)
}

func stdlibPath(t *testing.T) *classpath.Path {
	t.Helper()
	dir, err := filepath.Abs("../../stdlib")
	require.NoError(t, err)
	return classpath.New([]string{dir}, nil)
}

func bootstrapped(t *testing.T) *Interp {
	t.Helper()
	i := New()
	require.NoError(t, i.Bootstrap(stdlibPath(t)))
	return i
}

func loadAndRun(t *testing.T, i *Interp, path string) (Value, error) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cls, err := parser.New(string(data)).Parse()
	require.NoError(t, err)

	src := &fileSource{base: stdlibPath(t), className: cls.Name, source: string(data)}
	userClass, err := i.LoadUserClass(src, cls.Name)
	require.NoError(t, err)

	instance, err := i.Send(FromObj(userClass), "new", nil)
	require.NoError(t, err)
	return i.Send(instance, "run", nil)
}

func TestBootstrapPopulatesSingletons(t *testing.T) {
	i := bootstrapped(t)
	require.NotNil(t, i.ObjectClass)
	require.NotNil(t, i.ClassClassObj)
	require.NotNil(t, i.NilClass)
	require.NotNil(t, i.IntegerClass)
	require.NotNil(t, i.BlockClass)
	require.True(t, i.BooleanClass.IsSubclassOf(i.ObjectClass))
	require.True(t, i.TrueClass.IsSubclassOf(i.BooleanClass))
	require.False(t, i.nilValue.IsIllegal())
}

func TestScenarioHelloWorld(t *testing.T) {
	i := bootstrapped(t)
	_, err := loadAndRun(t, i, "../../examples/hello.som")
	require.NoError(t, err)
}

func TestScenarioClosureCaptureAndMutation(t *testing.T) {
	i := bootstrapped(t)
	result, err := loadAndRun(t, i, "../../examples/closure_capture.som")
	require.NoError(t, err)
	n, ok := result.AsInt64()
	require.True(t, ok)
	require.Equal(t, int64(3), n)
}

func TestScenarioNonLocalReturn(t *testing.T) {
	i := bootstrapped(t)
	result, err := loadAndRun(t, i, "../../examples/non_local_return.som")
	require.NoError(t, err)
	n, ok := result.AsInt64()
	require.True(t, ok)
	require.Equal(t, int64(42), n)
}

func TestScenarioBoxingBoundary(t *testing.T) {
	i := bootstrapped(t)
	result, err := loadAndRun(t, i, "../../examples/boxing_boundary.som")
	require.NoError(t, err)
	require.True(t, result.Equal(i.trueValue))
}

func TestScenarioEscapedBlockErrors(t *testing.T) {
	i := bootstrapped(t)
	_, err := loadAndRun(t, i, "../../examples/escaped_block.som")
	require.Error(t, err)
	ve, ok := err.(*VMError)
	require.True(t, ok)
	require.Equal(t, PrimitiveError, ve.Kind)
}

func TestRestartPrimitiveRewindsToMethodEntry(t *testing.T) {
	i := bootstrapped(t)

	attempts := 0
	flaky := &Method{
		Holder: i.ObjectClass,
		Compiled: &bytecode.Method{
			Holder: "Object", Selector: "flaky", NumArgs: 0, IsPrimitive: true, PrimitiveName: "flaky",
		},
		Primitive: func(interp *Interp, recv Value, args []Value) (Value, error) {
			attempts++
			if attempts < 3 {
				return Value{}, newError(PrimitiveError, restartSentinel)
			}
			return FromInt64(int64(attempts)), nil
		},
	}

	result, err := i.invoke(flaky, i.ObjectClass, i.nilValue, nil)
	require.NoError(t, err)
	n, ok := result.AsInt64()
	require.True(t, ok)
	require.Equal(t, int64(3), n)
	require.Equal(t, 3, attempts)
}
