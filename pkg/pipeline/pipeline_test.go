package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/labelfit"
	"github.com/matzehuels/sankey/pkg/render/scene"
	"github.com/matzehuels/sankey/pkg/render/style"
	"github.com/matzehuels/sankey/pkg/sankey"
	"github.com/matzehuels/sankey/pkg/tree"
)

func leaves(n int, count float64, color string) []*tree.Node {
	out := make([]*tree.Node, n)
	for i := range out {
		out[i] = &tree.Node{ID: tree.Number(5), Name: "3508-Action", Count: count, Tooltip: "2500 | 100%", Color: color}
	}
	return out
}

func eventsTree() *tree.Node {
	allow := leaves(8, 0, "#258b3e")
	for i, c := range []float64{1000, 1500, 1500, 500, 500, 1500, 1000, 1000} {
		allow[i].Count = c
	}
	deny := leaves(2, 250, "#b22922")
	deny[1].Name = "Transactions flagged for manual review"
	return &tree.Node{
		ID: tree.Number(1), Name: "All Events", Count: 10000, Tooltip: "10K | 100%", Color: "#2763EC",
		Distribution: []*tree.Node{
			{ID: tree.Number(1), Name: "Allow", Count: 8500, Tooltip: "5k | 50%", Color: "#34C759", Distribution: allow},
			{ID: tree.Number(3), Name: "Review", Count: 1000, Tooltip: "2.5k | 25%", Color: "#FF9500", Distribution: leaves(4, 250, "#b26800")},
			{ID: tree.Number(4), Name: "Deny", Count: 500, Tooltip: "2.5k | 25%", Delta: tree.Text("-3%"), Color: "#FF3B30", Distribution: deny},
		},
	}
}

func testOptions(formats ...string) Options {
	return Options{
		Formats:  formats,
		Measurer: labelfit.Monospace{Advance: 7},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"sankey", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestValidateAlign(t *testing.T) {
	tests := []struct {
		align   string
		wantErr bool
	}{
		{"justify", false},
		{"left", false},
		{"center", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateAlign(tt.align)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAlign(%q) error = %v, wantErr %v", tt.align, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}

	if opts.VizType != VizTypeSankey {
		t.Errorf("VizType = %q, want %q", opts.VizType, VizTypeSankey)
	}
	if opts.Width != 800 || opts.HeightMultiplier != 100 || *opts.HeightOffset != 4 || *opts.MinHeight != 800 {
		t.Errorf("canvas defaults = %v/%v/%v/%v", opts.Width, opts.HeightMultiplier, *opts.HeightOffset, *opts.MinHeight)
	}
	if opts.NodeWidth != 32 || opts.NodePadding != 42 {
		t.Errorf("node defaults = %v/%v, want 32/42", opts.NodeWidth, opts.NodePadding)
	}
	if opts.MinThickness != 5 || opts.ThicknessThreshold != 5 {
		t.Errorf("clamp defaults = %v/%v, want 5/5", opts.MinThickness, opts.ThicknessThreshold)
	}
	if opts.Align != AlignJustify || opts.Iterations != 6 {
		t.Errorf("layout defaults = %q/%d", opts.Align, opts.Iterations)
	}
	if opts.Policy != "wrap" {
		t.Errorf("Policy = %q, want wrap", opts.Policy)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style == nil || *opts.Style != style.Default() {
		t.Error("Style should default to style.Default()")
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsKeepExplicitValues(t *testing.T) {
	opts := Options{Width: 1200, NodePadding: 10, Policy: "ellipsis", Align: AlignLeft}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	if opts.Width != 1200 || opts.NodePadding != 10 || opts.Policy != "ellipsis" || opts.Align != AlignLeft {
		t.Errorf("explicit values overwritten: %+v", opts)
	}
}

func TestOptionsKeepZeroHeightSettings(t *testing.T) {
	opts := Options{HeightOffset: ptr(0), MinHeight: ptr(0.0)}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	p := opts.SizePolicy()
	if p.HeightOffset != 0 || p.MinHeight != 0 {
		t.Fatalf("size policy = %+v, want zero offset and min height", p)
	}
	if got := p.CanvasHeight(3); got != 300 {
		t.Errorf("CanvasHeight(3) = %v, want 300", got)
	}

	var defaults Options
	if err := defaults.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	if defaults.ArtifactKeyOpts(FormatSVG) == opts.ArtifactKeyOpts(FormatSVG) {
		t.Error("zero height settings should key differently from the defaults")
	}
}

func TestOptionsValidationErrors(t *testing.T) {
	badStyle := style.Default()
	badStyle.LinkColor = "blue"

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"policy", Options{Policy: "shrink"}, errors.ErrCodeInvalidPolicy},
		{"viz type", Options{VizType: "tower"}, errors.ErrCodeInvalidVizType},
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"align", Options{Align: "center"}, errors.ErrCodeInvalidConfig},
		{"width", Options{Width: -1}, errors.ErrCodeInvalidConfig},
		{"min height", Options{MinHeight: ptr(-1.0)}, errors.ErrCodeInvalidConfig},
		{"style", Options{Style: &badStyle}, errors.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOptsTrackOutputChanges(t *testing.T) {
	keyer := cache.NewDefaultKeyer()
	key := func(mut func(*Options)) string {
		opts := testOptions()
		mut(&opts)
		if err := opts.ValidateForRender(); err != nil {
			t.Fatal(err)
		}
		return keyer.ArtifactKey("tree", opts.ArtifactKeyOpts(FormatSVG))
	}

	base := key(func(*Options) {})
	if base != key(func(*Options) {}) {
		t.Fatal("keys should be deterministic")
	}
	changes := map[string]func(*Options){
		"width":  func(o *Options) { o.Width = 900 },
		"policy": func(o *Options) { o.Policy = "ellipsis" },
		"font":   func(o *Options) { o.NoFont = true },
		"style": func(o *Options) {
			st := style.Default()
			st.LinkOpacity = 0.2
			o.Style = &st
		},
	}
	for name, mut := range changes {
		if key(mut) == base {
			t.Errorf("changing %s should change the key", name)
		}
	}
}

func TestComputeLayoutEventsTree(t *testing.T) {
	ctx := context.Background()
	g, err := Flatten(ctx, eventsTree())
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 18 || len(g.Links) != 17 {
		t.Fatalf("graph = %d nodes / %d links, want 18/17", len(g.Nodes), len(g.Links))
	}

	pos, height, err := ComputeLayout(ctx, g, Options{})
	if err != nil {
		t.Fatalf("ComputeLayout: %v", err)
	}
	if height != 1400 {
		t.Errorf("height = %v, want 1400", height)
	}
	if len(pos.Nodes) != 18 {
		t.Fatalf("positioned nodes = %d, want 18", len(pos.Nodes))
	}
	for _, n := range pos.Nodes {
		if n.Height() < 5-1e-9 {
			t.Errorf("node %d height %v below minimum thickness", n.Index, n.Height())
		}
		if n.X0 < 0 || n.X1 > 800+1e-9 {
			t.Errorf("node %d x range [%v,%v] outside canvas", n.Index, n.X0, n.X1)
		}
		if math.Abs(n.Width()-32) > 1e-9 {
			t.Errorf("node %d width = %v, want 32", n.Index, n.Width())
		}
	}
}

func TestComputeLayoutDoesNotMutateGraph(t *testing.T) {
	ctx := context.Background()
	g, err := Flatten(ctx, eventsTree())
	if err != nil {
		t.Fatal(err)
	}
	before := append([]sankey.Node(nil), g.Nodes...)
	if _, _, err := ComputeLayout(ctx, g, Options{}); err != nil {
		t.Fatal(err)
	}
	for i := range before {
		if before[i] != g.Nodes[i] {
			t.Fatalf("node %d changed: %+v -> %+v", i, before[i], g.Nodes[i])
		}
	}
}

func TestComputeLayoutWrapsLayouterErrors(t *testing.T) {
	boom := stderrors.New("boom")
	opts := Options{Layouter: sankey.LayouterFunc(func(sankey.Graph, sankey.Extent, float64, float64) (sankey.Positioned, error) {
		return sankey.Positioned{}, boom
	})}

	_, _, err := ComputeLayout(context.Background(), sankey.Graph{}, opts)
	if !errors.Is(err, errors.ErrCodeLayout) {
		t.Errorf("error = %v, want LAYOUT_FAILED", err)
	}
	if !stderrors.Is(err, boom) {
		t.Error("cause should be preserved")
	}
}

func TestBuildSceneSurfaceReleasesPreviousPass(t *testing.T) {
	ctx := context.Background()
	g, err := Flatten(ctx, eventsTree())
	if err != nil {
		t.Fatal(err)
	}
	opts := testOptions()
	opts.Surface = &scene.Surface{}
	pos, height, err := ComputeLayout(ctx, g, opts)
	if err != nil {
		t.Fatal(err)
	}

	first, err := BuildScene(ctx, pos, height, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Bindings()) == 0 {
		t.Fatal("the long leaf label should be truncated and bound")
	}
	second, err := BuildScene(ctx, pos, height, opts)
	if err != nil {
		t.Fatal(err)
	}

	if !first.Released() {
		t.Error("first scene should be released by the second pass")
	}
	for _, b := range first.Bindings() {
		if !b.Released() {
			t.Errorf("binding for node %d still live", b.Node())
		}
	}
	if opts.Surface.Current() != second || opts.Surface.Passes() != 2 {
		t.Error("surface should hold the second scene after two passes")
	}

	// A failed pass leaves the second scene installed.
	failing := opts
	failing.Measurer = labelfit.MeasureFunc(func(string) (float64, error) { return 0, stderrors.New("no font") })
	if _, err := BuildScene(ctx, pos, height, failing); !errors.Is(err, errors.ErrCodeMeasure) {
		t.Fatalf("error = %v, want MEASURE_FAILED", err)
	}
	if opts.Surface.Current() != second || second.Released() {
		t.Error("failed pass must not replace or release the installed scene")
	}
}

func TestExecuteSVGAndJSON(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache()
	runner := NewRunner(mem, nil, nil)

	res, err := runner.Execute(ctx, eventsTree(), testOptions(FormatSVG, FormatJSON))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.NodeCount != 18 || res.Stats.LinkCount != 17 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Height != 1400 {
		t.Errorf("height = %v, want 1400", res.Height)
	}
	if res.Scene == nil || len(res.Scene.Rects) != 18 || len(res.Scene.Paths) != 17 {
		t.Fatal("scene should hold 18 rects and 17 paths")
	}
	if res.Stats.TruncatedCount != 1 {
		t.Errorf("truncated labels = %d, want 1", res.Stats.TruncatedCount)
	}
	svg := res.Artifacts[FormatSVG]
	if !bytes.HasPrefix(bytes.TrimSpace(svg), []byte("<?xml")) || !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("svg artifact malformed: %.80s", svg)
	}
	if !bytes.Contains(res.Artifacts[FormatJSON], []byte(`"rects"`)) {
		t.Error("json artifact should carry the scene")
	}
	if res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if mem.Len() != 2 {
		t.Errorf("cache entries = %d, want 2", mem.Len())
	}

	again, err := runner.Execute(ctx, eventsTree(), testOptions(FormatSVG, FormatJSON))
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.RenderHit {
		t.Error("second run should hit the cache")
	}
	if again.Scene != nil {
		t.Error("cached run should not build a scene")
	}
	if !bytes.Equal(again.Artifacts[FormatSVG], svg) {
		t.Error("cached svg differs from rendered svg")
	}
	if again.TreeHash != res.TreeHash {
		t.Error("tree hash should be stable")
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	if _, err := runner.Execute(ctx, eventsTree(), testOptions(FormatJSON)); err != nil {
		t.Fatal(err)
	}
	opts := testOptions(FormatJSON)
	opts.Refresh = true
	res, err := runner.Execute(ctx, eventsTree(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit || res.Scene == nil {
		t.Error("refresh should re-render")
	}
}

func TestExecuteRejectsInvalidWeight(t *testing.T) {
	mem := cache.NewMemoryCache()
	runner := NewRunner(mem, nil, nil)
	root := eventsTree()
	root.Distribution[1].Count = -5

	_, err := runner.Execute(context.Background(), root, testOptions())
	if !errors.Is(err, errors.ErrCodeInvalidWeight) {
		t.Fatalf("error = %v, want INVALID_WEIGHT", err)
	}
	if mem.Len() != 0 {
		t.Error("failed run must not write the cache")
	}
}

func TestExecuteEmptyTree(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	res, err := runner.Execute(context.Background(), nil, testOptions())
	if err != nil {
		t.Fatalf("Execute(nil): %v", err)
	}
	if res.Stats.NodeCount != 0 || res.Height != 800 {
		t.Errorf("empty tree: nodes=%d height=%v, want 0/800", res.Stats.NodeCount, res.Height)
	}
	if len(res.Scene.Rects) != 0 || len(res.Scene.Paths) != 0 {
		t.Error("empty tree should paint nothing")
	}
}

func TestExecuteNodelinkJSON(t *testing.T) {
	opts := testOptions(FormatJSON)
	opts.VizType = VizTypeNodelink
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), eventsTree(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Scene != nil {
		t.Error("nodelink should not build a scene")
	}
	if !strings.Contains(string(res.Artifacts[FormatJSON]), "digraph G") {
		t.Error("nodelink json should embed the DOT source")
	}
}

func TestDecode(t *testing.T) {
	root, err := Decode([]byte(`{"name":"All","count":3,"distribution":[{"name":"A","count":3}]}`), "")
	if err != nil {
		t.Fatal(err)
	}
	if root.Name != "All" || len(root.Distribution) != 1 {
		t.Errorf("decoded %+v", root)
	}
	if _, err := Decode([]byte("x"), "toml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}
