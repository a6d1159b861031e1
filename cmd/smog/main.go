// Command smog runs a single ".som" source file: `smog [-h] --cp <path>
// [--cp <path> ...] [-d] [-v] <file.som>`. The named class is bootstrapped
// against the builtin classes found on the classpath, instantiated with
// `new`, and sent `run`.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smogvm/smog/pkg/classpath"
	"github.com/smogvm/smog/pkg/parser"
	"github.com/smogvm/smog/pkg/vm"
)

var (
	cpDirs  []string
	debug   bool
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "smog <file.som>",
		Short:         "smog runs a single SOM-family source file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
	root.Flags().StringArrayVar(&cpDirs, "cp", nil, "classpath directory (repeatable); builtin classes resolve <dir>/<Name>.som first-match")
	root.Flags().BoolVarP(&debug, "debug", "d", false, "enable the breakpoint/step debugger")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable bootstrap/classpath trace logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

// fileOverlay satisfies vm.ClassSource, serving one class's source text
// directly (the user's <file.som>, whose path need not appear anywhere
// on the classpath) and falling back to the classpath for everything
// else — the superclass chain and any builtin the file's methods send
// to.
type fileOverlay struct {
	base      *classpath.Path
	className string
	source    string
}

func (o *fileOverlay) Load(name string) (string, error) {
	if name == o.className {
		return o.source, nil
	}
	return o.base.Load(name)
}

func run(file string) error {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}

	path := filepath.Clean(file)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	cls, err := parser.New(string(data)).Parse()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	cp := classpath.New(cpDirs, logger)
	src := &fileOverlay{base: cp, className: cls.Name, source: string(data)}

	i := vm.New()
	i.SetLogger(logger)
	if debug {
		dbg := vm.NewDebugger()
		dbg.Enable()
		dbg.SetStepMode(true)
		dbg.OnBreak(func(interp *vm.Interp, frame *vm.Frame) {
			fmt.Fprintln(os.Stderr, color.YellowString(vm.DumpFrame(frame)))
		})
		i.Debugger = dbg
	}

	if err := i.Bootstrap(cp); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	userClass, err := i.LoadUserClass(src, cls.Name)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cls.Name, err)
	}

	instance, err := i.Send(vm.FromObj(userClass), "new", nil)
	if err != nil {
		return reportRuntimeError(err)
	}

	if _, err := i.Send(instance, "run", nil); err != nil {
		return reportRuntimeError(err)
	}
	return nil
}

// reportRuntimeError treats VMError{Kind: Exit} as normal termination
// rather than a failure, matching System>>exit:'s "stop the program"
// intent.
func reportRuntimeError(err error) error {
	if ve, ok := err.(*vm.VMError); ok && ve.Kind == vm.Exit {
		return nil
	}
	return err
}
