// Package colorterm renders pepcli's decision and obligation output in
// color. Apart from cmd/pepcli itself, it is the only package that
// formats domain values for a human; the library packages never do.
package colorterm

import (
	"github.com/fatih/color"

	"github.com/pombreda/argus-pep-api-c/xacml"
)

// Decision colors a decision the way an operator scans a terminal for it:
// green for Permit, red for Deny, yellow for everything else.
func Decision(d xacml.Decision) string {
	var c *color.Color
	switch d {
	case xacml.Permit:
		c = color.New(color.FgHiGreen)
	case xacml.Deny:
		c = color.New(color.FgHiRed)
	default:
		c = color.New(color.FgHiYellow)
	}
	c.EnableColor()
	return c.SprintFunc()(d.String())
}

// ObligationMarker is the highlighted label printed before each
// obligation's id.
func ObligationMarker() string {
	magenta := color.New(color.FgHiMagenta)
	magenta.EnableColor()
	return magenta.SprintFunc()("obligation")
}

// ResourceID highlights the resource a Result applies to.
func ResourceID(id string) string {
	cyan := color.New(color.FgHiCyan)
	cyan.EnableColor()
	return cyan.SprintFunc()(id)
}
