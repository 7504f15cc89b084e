package utils

import (
	"runtime"
	"sync"
)

// ProcessGroup runs a processor over a collection on a pool of goroutines.
// Results arrive on Output in completion order. After Output closes, Err
// yields the first processing error, or nil when everything went through.
type ProcessGroup[I, O any] struct {
	Output chan O
	Err    chan error

	abort chan struct{}
	wg    sync.WaitGroup
}

// ParallelFor feeds col through proc. The first error aborts the group:
// remaining inputs are dropped, and Output closes once the in-flight calls
// finish.
func ParallelFor[I, O any](col []I, proc func(I) (O, error)) *ProcessGroup[I, O] {
	routines := Max(Min(runtime.GOMAXPROCS(-1), runtime.NumCPU()/2)-1, 1)

	group := &ProcessGroup[I, O]{
		Output: make(chan O, 2*routines),
		Err:    make(chan error, 1),
		abort:  make(chan struct{}),
	}

	input := make(chan I, 2*routines)

	go func() {
		defer close(input)

		for _, w := range col {
			select {
			case input <- w:
			case <-group.abort:
				return
			}
		}
	}()

	for i := 0; i < routines; i++ {
		group.wg.Add(1)
		go group.runProcessor(input, proc)
	}

	go func() {
		group.wg.Wait()
		close(group.Output)
		close(group.Err)
	}()

	return group
}

func (g *ProcessGroup[I, O]) runProcessor(input <-chan I, proc func(I) (O, error)) {
	defer g.wg.Done()

	for {
		select {
		case <-g.abort:
			return

		case in, ok := <-input:
			if !ok {
				return
			}

			out, err := proc(in)
			if err != nil {
				g.fail(err)
				return
			}

			g.Output <- out
		}
	}
}

// fail keeps the first error and signals the abort. Err is buffered, so the
// failing processor does not wait for the consumer to reach the error check.
func (g *ProcessGroup[I, O]) fail(err error) {
	select {
	case g.Err <- err:
		close(g.abort)
	default:
	}
}
