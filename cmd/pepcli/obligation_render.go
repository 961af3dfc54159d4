package main

import (
	"fmt"
	"strings"

	"github.com/pombreda/argus-pep-api-c/colorterm"
	"github.com/pombreda/argus-pep-api-c/xacml"
)

// renderObligation prints a human-readable summary of an obligation and its
// attribute assignments. Invoked only from the CLI -- the library never
// formats obligations for display.
func renderObligation(o *xacml.Obligation) {
	fmt.Printf("%s %s (fulfill on %s)\n", colorterm.ObligationMarker(), o.ID, o.FulfillOn)
	for _, a := range o.Assignments {
		fmt.Printf("  %s = %s\n", a.ID, strings.Join(a.Values, ", "))
	}
}
