package pipeline_test

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxarrow/pkg/pipeline"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

func ExampleRunner_Resolve() {
	gap := 20.0
	spec := &schematic.Spec{Type: schematic.TypeHorizontal, Gap: &gap, Children: []*schematic.Spec{
		schematic.Box("a", 40, 20),
		schematic.Box("b", 40, 20),
		schematic.Link("a.right", "b.left", "straight"),
	}}

	runner := pipeline.NewRunner(nil, nil, log.NewWithOptions(io.Discard, log.Options{}))
	res, err := runner.Resolve(context.Background(), spec, pipeline.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}

	out := res.Output()
	b, _ := out.Item("b")
	fmt.Printf("b: x=%g y=%g w=%g h=%g\n", b.Border.X, b.Border.Y, b.Border.W, b.Border.H)
	fmt.Println("link:", out.Links[0].Points)
	// Output:
	// b: x=60 y=0 w=40 h=20
	// link: [(40,10) (60,10)]
}
