package anchor_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/boxarrow/pkg/anchor"
	"github.com/matzehuels/boxarrow/pkg/layout"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

func ExampleSet_Lookup() {
	s, err := schematic.Build(schematic.Container(schematic.TypeVertical,
		schematic.Box("foo", 40, 20),
	))
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := (&layout.Engine{}).Run(context.Background(), s); err != nil {
		fmt.Println(err)
		return
	}

	set, _ := anchor.Resolve(s)
	for _, ref := range []string{"foo.top-left", "foo.center", "foo.bottom_right"} {
		p, _ := set.Lookup(ref)
		fmt.Println(ref, p.At)
	}
	// Output:
	// foo.top-left (0,0)
	// foo.center (20,10)
	// foo.bottom_right (40,20)
}
