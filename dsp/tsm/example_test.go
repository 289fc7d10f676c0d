package tsm_test

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/tsm"
)

func ExampleEngine() {
	e, err := tsm.NewEngine(1, 44100)
	if err != nil {
		panic(err)
	}

	input := [][]float32{make([]float32, 512)}
	consumed := e.Push(input, 1.0)

	e.SetFinal()

	dest := [][]float32{make([]float32, 512)}
	produced := e.Pull(dest, 1.0)

	fmt.Printf("consumed=%d produced=%d\n", consumed, produced)
	// Output: consumed=512 produced=512
}
