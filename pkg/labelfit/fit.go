package labelfit

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/sankey/pkg/errors"
)

// Policy selects how overflowing labels are shortened.
type Policy string

const (
	PolicyWrap     Policy = "wrap"
	PolicyEllipsis Policy = "ellipsis"
)

// Ellipsis marks cut text.
const Ellipsis = "…"

// Defaults for the label font.
const (
	DefaultFontSize   = 14.0
	DefaultLineHeight = 1.1
)

// ParsePolicy validates a policy name. The empty string selects [PolicyWrap].
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyWrap:
		return PolicyWrap, nil
	case PolicyEllipsis:
		return PolicyEllipsis, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidPolicy, "invalid label policy: %q (must be wrap or ellipsis)", s)
	}
}

// Result is the outcome of fitting one label.
type Result struct {
	Lines     []string
	Truncated bool
}

// Empty reports whether there is nothing to draw.
func (r Result) Empty() bool { return len(r.Lines) == 0 }

// Text returns the drawn lines joined by spaces.
func (r Result) Text() string { return strings.Join(r.Lines, " ") }

// Fitter fits labels with a fixed policy, font size and line height.
type Fitter struct {
	measurer   Measurer
	policy     Policy
	fontSize   float64
	lineHeight float64
}

// Option configures a [Fitter].
type Option func(*Fitter)

// WithPolicy selects the truncation policy.
func WithPolicy(p Policy) Option { return func(f *Fitter) { f.policy = p } }

// WithFontSize sets the font size in pixels used to derive line height.
func WithFontSize(px float64) Option { return func(f *Fitter) { f.fontSize = px } }

// WithLineHeight sets the line height in em.
func WithLineHeight(em float64) Option { return func(f *Fitter) { f.lineHeight = em } }

// New returns a Fitter measuring with m.
func New(m Measurer, opts ...Option) *Fitter {
	f := &Fitter{
		measurer:   m,
		policy:     PolicyWrap,
		fontSize:   DefaultFontSize,
		lineHeight: DefaultLineHeight,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Policy returns the configured policy.
func (f *Fitter) Policy() Policy { return f.policy }

// LineHeight returns the line height in em.
func (f *Fitter) LineHeight() float64 { return f.lineHeight }

// MaxLines returns how many lines fit in allottedHeight, keeping one line
// of headroom. It never returns less than one.
func (f *Fitter) MaxLines(allottedHeight float64) int {
	lineHeightPx := f.lineHeight * f.fontSize
	if lineHeightPx <= 0 {
		return 1
	}
	return max(1, int(math.Floor(allottedHeight/lineHeightPx))-1)
}

// Fit lays out label within maxWidth and allottedHeight. An empty or
// whitespace-only label yields an empty Result. Measurement errors are
// returned as MEASURE_FAILED.
func (f *Fitter) Fit(label string, maxWidth, allottedHeight float64) (Result, error) {
	words := strings.Fields(label)
	if len(words) == 0 {
		return Result{}, nil
	}
	m := &measure{m: f.measurer, maxWidth: maxWidth}

	var (
		res Result
		err error
	)
	switch f.policy {
	case PolicyEllipsis:
		res, err = fitEllipsis(m, words)
	case PolicyWrap, "":
		res, err = fitWrap(m, words, f.MaxLines(allottedHeight))
	default:
		return Result{}, errors.New(errors.ErrCodeInvalidPolicy, "invalid label policy: %q", f.policy)
	}
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeMeasure, err, "fit label %q", label)
	}
	return res, nil
}

func fitWrap(m *measure, words []string, maxLines int) (Result, error) {
	var res Result
	line := ""
	for _, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		ok, err := m.fits(candidate)
		if err != nil {
			return Result{}, err
		}
		if ok || line == "" {
			line = candidate
			continue
		}
		res.Lines = append(res.Lines, line)
		if len(res.Lines) == maxLines {
			res.Truncated = true
			line = ""
			break
		}
		line = w
	}
	if line != "" {
		res.Lines = append(res.Lines, line)
	}

	if res.Truncated {
		last := len(res.Lines) - 1
		s, err := m.ellipsize(res.Lines[last])
		if err != nil {
			return Result{}, err
		}
		res.Lines[last] = s
	}

	// A single word wider than the slot still has a line to itself. Once a
	// line is cut down to a bare ellipsis nothing after it can be shown.
	for i, l := range res.Lines {
		ok, err := m.fits(l)
		if err != nil {
			return Result{}, err
		}
		if ok {
			continue
		}
		s, err := m.ellipsize(dropLastRune(strings.TrimSuffix(l, Ellipsis)))
		if err != nil {
			return Result{}, err
		}
		res.Lines[i] = s
		res.Truncated = true
		if s == Ellipsis {
			res.Lines = res.Lines[:i+1]
			break
		}
	}
	return res, nil
}

func fitEllipsis(m *measure, words []string) (Result, error) {
	text := strings.Join(words, " ")
	ok, err := m.fits(text)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Lines: []string{text}}, nil
	}
	s, err := m.ellipsize(dropLastRune(text))
	if err != nil {
		return Result{}, err
	}
	return Result{Lines: []string{s}, Truncated: true}, nil
}

type measure struct {
	m        Measurer
	maxWidth float64
}

func (m *measure) fits(s string) (bool, error) {
	w, err := m.m.Measure(s)
	if err != nil {
		return false, err
	}
	return w <= m.maxWidth, nil
}

// ellipsize appends an ellipsis to s, dropping trailing runes until the
// result fits. It returns a bare ellipsis when nothing fits.
func (m *measure) ellipsize(s string) (string, error) {
	for {
		s = strings.TrimRight(s, " ")
		if s == "" {
			return Ellipsis, nil
		}
		candidate := s + Ellipsis
		ok, err := m.fits(candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
		s = dropLastRune(s)
	}
}

func dropLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
