package sankey

import (
	"encoding/xml"
	"strings"

	"github.com/matzehuels/sankey/pkg/tree"
)

// Class names carried by tooltip markup, for downstream styling.
const (
	ClassTooltip      = "sankey-tooltip"
	ClassTooltipValue = "sankey-tooltip-value"
	ClassTooltipArrow = "sankey-tooltip-arrow"
	ClassTooltipDelta = "sankey-tooltip-delta"
)

// DeltaArrow separates the current value from the delta.
const DeltaArrow = "→"

// TooltipMarkup builds the overlay markup for a node. Without a delta it
// wraps only the tooltip; with one it tags the tooltip and the delta
// separately, joined by [DeltaArrow]. Both texts are escaped.
func TooltipMarkup(tooltip string, delta tree.Scalar) string {
	var b strings.Builder
	b.WriteString(`<span class="` + ClassTooltip + `">`)
	b.WriteString(`<span class="` + ClassTooltipValue + `">`)
	b.WriteString(escape(tooltip))
	b.WriteString(`</span>`)
	if delta.Present() {
		b.WriteString(` <span class="` + ClassTooltipArrow + `">` + DeltaArrow + `</span> `)
		b.WriteString(`<span class="` + ClassTooltipDelta + `">`)
		b.WriteString(escape(delta.String()))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</span>`)
	return b.String()
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
