package legend_test

import (
	"fmt"

	"github.com/matzehuels/popcon/pkg/legend"
)

func ExampleLayout() {
	groups := legend.Layout([]legend.Entry{
		{Rank: 0, Name: "vim", Y: 100},
		{Rank: 1, Name: "emacs", Y: 108},
		{Rank: 2, Name: "nano", Y: 300},
	}, 11, 5)

	for _, g := range groups {
		var names []string
		for _, it := range g.Items {
			names = append(names, it.Name)
		}
		fmt.Printf("y=%.1f height=%.0f %v\n", g.Y, g.Height(), names)
	}
	// Output:
	// y=104.0 height=27 [vim emacs]
	// y=300.0 height=11 [nano]
}
