// Package labelfit fits variable-length labels into fixed-size slots.
//
// A [Fitter] decides, per label, which lines to draw and whether anything
// was cut. Two policies are supported:
//
//   - [PolicyWrap] packs words greedily into lines no wider than the slot,
//     stops when the slot height runs out, and ends the last kept line with
//     an ellipsis. A single word wider than the slot is trimmed character
//     by character.
//   - [PolicyEllipsis] keeps one line and trims trailing characters until
//     the text plus an ellipsis fits.
//
// Every decision is driven by a [Measurer] that reports the exact rendered
// width of a string. [FontMeasurer] measures with the embedded Go Regular
// face, [CellMeasurer] with terminal cell widths, and [Monospace] with a
// fixed advance per rune.
//
// When [Result.Truncated] is true, the renderer attaches a hover tooltip
// carrying the full label.
//
//	f := labelfit.New(measurer, labelfit.WithPolicy(labelfit.PolicyWrap))
//	res, err := f.Fit("Transactions flagged for manual review", 120, 40)
package labelfit
