package metrics

import (
	"fmt"
	"strings"
)

// Digits is the number of decimals printed in the report
const Digits = 3

// report lays the result out as a right aligned text table
func report(res Result) string {
	width := len(res.WeightedAvg.Name)
	for _, c := range res.Classes {
		if len(c.Name) > width {
			width = len(c.Name)
		}
	}
	if width < Digits {
		width = Digits
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s ", width, "")
	for _, h := range []string{"precision", "recall", "f1-score", "support"} {
		fmt.Fprintf(&b, " %9s", h)
	}
	b.WriteString("\n\n")

	row := func(c ClassScore) {
		fmt.Fprintf(&b, "%*s  %9.*f %9.*f %9.*f %9d\n", width, c.Name,
			Digits, c.Precision, Digits, c.Recall, Digits, c.F1, c.Support)
	}
	for _, c := range res.Classes {
		row(c)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s  %9s %9s %9.*f %9d\n", width, "accuracy", "", "",
		Digits, res.Accuracy, res.WeightedAvg.Support)
	row(res.MacroAvg)
	row(res.WeightedAvg)
	return b.String()
}
