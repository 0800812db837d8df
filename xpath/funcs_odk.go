package xpath

import (
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/p-netm/enketo-xpath/xpath/geo"
)

// odkFuncSpecs is the XForms/OpenRosa/ODK extension library of spec.md
// §4.F, layered on top of the standard XPath 1.0 library in
// funcs_core.go.
var odkFuncSpecs = []FuncSpec{
	{Name: "selected", MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{Kind: String}, {Kind: String}}, Ret: Boolean, Fn: fnSelected},
	{Name: "selected-at", MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{Kind: String}, {Kind: Number}}, Ret: String, Fn: fnSelectedAt},
	{Name: "count-selected", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: String}}, Ret: Number, Fn: fnCountSelected},
	{Name: "count-non-empty", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: NodeSetKind}}, Ret: Number, Fn: fnCountNonEmpty},
	{Name: "checklist", MinArgs: 2, MaxArgs: -1, Args: []ArgSpec{{Kind: Number}, {Kind: Number}, {Kind: String, Variadic: true}}, Ret: Boolean, Fn: fnChecklist},
	{Name: "weighted-checklist", MinArgs: 2, MaxArgs: -1, Args: []ArgSpec{{Kind: Number}, {Kind: Number}, {Kind: String, Variadic: true}}, Ret: Boolean, Fn: fnWeightedChecklist},
	{Name: "boolean-from-string", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: String}}, Ret: Boolean, Fn: fnBooleanFromString},
	{Name: "pow", MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{Kind: Number}, {Kind: Number}}, Ret: Number, Fn: fnPow},
	{Name: "abs", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: fnAbs},
	{Name: "int", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: fnInt},
	{Name: "max", MinArgs: 1, MaxArgs: -1, Args: []ArgSpec{{Kind: Number, Variadic: true}}, Ret: Number, Fn: fnMax},
	{Name: "min", MinArgs: 1, MaxArgs: -1, Args: []ArgSpec{{Kind: Number, Variadic: true}}, Ret: Number, Fn: fnMin},
	{Name: "join", MinArgs: 2, MaxArgs: -1, Args: []ArgSpec{{Kind: String}, {Kind: String, Variadic: true}}, Ret: String, Fn: fnJoin},
	{Name: "random", MinArgs: 0, MaxArgs: 0, Ret: Number, Fn: fnRandom},
	{Name: "randomize", MinArgs: 1, MaxArgs: 2, Args: []ArgSpec{{Kind: NodeSetKind}, {Kind: Number}}, Ret: NodeSetKind, Fn: fnRandomize},
	{Name: "regex", MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{Kind: String}, {Kind: String}}, Ret: Boolean, Fn: fnRegex},
	{Name: "uuid", MinArgs: 0, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: String, Fn: fnUUID},
	{Name: "substr", MinArgs: 2, MaxArgs: 3, Args: []ArgSpec{{Kind: String}, {Kind: Number}, {Kind: Number}}, Ret: String, Fn: fnSubstr},
	{Name: "once", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: String}}, Ret: String, Fn: fnOnce},
	{Name: "today", MinArgs: 0, MaxArgs: 0, Ret: DateKind, Fn: fnToday},
	{Name: "now", MinArgs: 0, MaxArgs: 0, Ret: DateKind, Fn: fnNow},
	{Name: "date", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: DateKind}}, Ret: DateKind, Fn: fnDate},
	{Name: "date-time", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: DateKind}}, Ret: DateKind, Fn: fnDate},
	{Name: "decimal-date-time", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: DateKind}}, Ret: Number, Fn: fnDecimalDateTime},
	{Name: "decimal-time", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: String}}, Ret: Number, Fn: fnDecimalTime},
	{Name: "format-date", MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{Kind: DateKind}, {Kind: String}}, Ret: String, Fn: fnFormatDate},
	{Name: "format-date-time", MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{Kind: DateKind}, {Kind: String}}, Ret: String, Fn: fnFormatDate},
	{Name: "area", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: NodeSetKind}}, Ret: Number, Fn: fnArea},
	{Name: "distance", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: NodeSetKind}}, Ret: Number, Fn: fnDistance},
	{Name: "sin", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: unaryMath(math.Sin)},
	{Name: "cos", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: unaryMath(math.Cos)},
	{Name: "tan", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: unaryMath(math.Tan)},
	{Name: "asin", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: unaryMath(math.Asin)},
	{Name: "acos", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: unaryMath(math.Acos)},
	{Name: "atan", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: unaryMath(math.Atan)},
	{Name: "atan2", MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{Kind: Number}, {Kind: Number}}, Ret: Number, Fn: fnAtan2},
	{Name: "log", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: unaryMath(math.Log)},
	{Name: "log10", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: unaryMath(math.Log10)},
	{Name: "exp", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: unaryMath(math.Exp)},
	{Name: "exp10", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: unaryMath(func(x float64) float64 { return math.Pow(10, x) })},
	{Name: "sqrt", MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{Kind: Number}}, Ret: Number, Fn: unaryMath(math.Sqrt)},
	{Name: "pi", MinArgs: 0, MaxArgs: 0, Ret: Number, Fn: fnPi},
}

func unaryMath(f func(float64) float64) Func {
	return func(ctx *Context, args []Value) (Value, error) {
		return NumberValue(f(args[0].ToNumber())), nil
	}
}

// selectionTokens splits a "selected" node-set or string value's string
// value on whitespace, the encoding ODK multi-select answers use.
func selectionTokens(v Value) []string {
	if v.Kind == NodeSetKind {
		var out []string
		for _, s := range v.Set.StringValues() {
			out = append(out, strings.Fields(s)...)
		}
		return out
	}
	return strings.Fields(v.ToStringValue())
}

func fnSelected(ctx *Context, args []Value) (Value, error) {
	want := args[1].ToStringValue()
	for _, tok := range selectionTokens(args[0]) {
		if tok == want {
			return BoolValue(true), nil
		}
	}
	return BoolValue(false), nil
}

func fnSelectedAt(ctx *Context, args []Value) (Value, error) {
	idx := int(args[1].ToNumber())
	toks := selectionTokens(args[0])
	if idx < 0 || idx >= len(toks) {
		return StringValue(""), nil
	}
	return StringValue(toks[idx]), nil
}

func fnCountSelected(ctx *Context, args []Value) (Value, error) {
	return NumberValue(float64(len(selectionTokens(args[0])))), nil
}

func fnCountNonEmpty(ctx *Context, args []Value) (Value, error) {
	set, err := args[0].ToNodeSet()
	if err != nil {
		return Value{}, err
	}
	count := 0
	for _, s := range set.StringValues() {
		if s != "" {
			count++
		}
	}
	return NumberValue(float64(count)), nil
}

// fnChecklist implements checklist(min, max, value...): true if the count
// of truthy values among args[2:] falls within [min, max], either bound
// disabled by passing -1.
func fnChecklist(ctx *Context, args []Value) (Value, error) {
	min, max := args[0].ToNumber(), args[1].ToNumber()
	count := 0
	for _, v := range args[2:] {
		if v.ToBoolean() {
			count++
		}
	}
	return BoolValue(checklistInRange(float64(count), min, max)), nil
}

// fnWeightedChecklist implements weighted-checklist(min, max, value1,
// weight1, value2, weight2, ...): like checklist, but each truthy value
// contributes its paired weight instead of 1.
func fnWeightedChecklist(ctx *Context, args []Value) (Value, error) {
	min, max := args[0].ToNumber(), args[1].ToNumber()
	rest := args[2:]
	total := 0.0
	for i := 0; i+1 < len(rest); i += 2 {
		if rest[i].ToBoolean() {
			total += rest[i+1].ToNumber()
		}
	}
	return BoolValue(checklistInRange(total, min, max)), nil
}

func checklistInRange(count, min, max float64) bool {
	if min >= 0 && count < min {
		return false
	}
	if max >= 0 && count > max {
		return false
	}
	return true
}

func fnBooleanFromString(ctx *Context, args []Value) (Value, error) {
	s := strings.TrimSpace(args[0].ToStringValue())
	return BoolValue(s == "true" || s == "1"), nil
}

func fnPow(ctx *Context, args []Value) (Value, error) {
	return NumberValue(math.Pow(args[0].ToNumber(), args[1].ToNumber())), nil
}

func fnAbs(ctx *Context, args []Value) (Value, error) {
	return NumberValue(math.Abs(args[0].ToNumber())), nil
}

func fnInt(ctx *Context, args []Value) (Value, error) {
	return NumberValue(math.Trunc(args[0].ToNumber())), nil
}

func fnMax(ctx *Context, args []Value) (Value, error) {
	nums := numericOperands(args)
	if len(nums) == 0 {
		return NumberValue(math.NaN()), nil
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if n > best {
			best = n
		}
	}
	return NumberValue(best), nil
}

func fnMin(ctx *Context, args []Value) (Value, error) {
	nums := numericOperands(args)
	if len(nums) == 0 {
		return NumberValue(math.NaN()), nil
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if n < best {
			best = n
		}
	}
	return NumberValue(best), nil
}

// numericOperands flattens max()/min()'s arguments: any mix of scalars
// and node-sets is accepted (spec.md §4.F), each node-set argument
// expanding to the number() of every one of its members regardless of
// its position among the other arguments, matching fnJoin's per-position
// expansion instead of only unwrapping a lone sole node-set argument.
func numericOperands(args []Value) []float64 {
	var out []float64
	for _, a := range args {
		if a.Kind == NodeSetKind {
			for _, s := range a.Set.StringValues() {
				out = append(out, StringValue(s).ToNumber())
			}
			continue
		}
		out = append(out, a.ToNumber())
	}
	return out
}

func fnJoin(ctx *Context, args []Value) (Value, error) {
	sep := args[0].ToStringValue()
	var parts []string
	for _, a := range args[1:] {
		if a.Kind == NodeSetKind {
			parts = append(parts, a.Set.StringValues()...)
		} else {
			parts = append(parts, a.ToStringValue())
		}
	}
	return StringValue(strings.Join(parts, sep)), nil
}

func fnRandom(ctx *Context, args []Value) (Value, error) {
	return NumberValue(rand.Float64()), nil
}

// fnRandomize implements randomize(node-set, seed?): a Fisher-Yates
// shuffle of the node-set's nodes, seeded deterministically when
// a seed argument is given.
func fnRandomize(ctx *Context, args []Value) (Value, error) {
	set, err := args[0].ToNodeSet()
	if err != nil {
		return Value{}, err
	}
	nodes := append([]Node(nil), set.Nodes()...)
	r := rand.New(rand.NewSource(rand.Int63()))
	if len(args) == 2 {
		r = rand.New(rand.NewSource(int64(args[1].ToNumber())))
	}
	r.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })
	return NodeSetValue(NewNodeSet(nodes, Unsorted)), nil
}

func fnRegex(ctx *Context, args []Value) (Value, error) {
	re, err := regexp.Compile(args[1].ToStringValue())
	if err != nil {
		return Value{}, newError(InvalidExpressionErr, "regex(): %v", err)
	}
	return BoolValue(re.MatchString(args[0].ToStringValue())), nil
}

func fnUUID(ctx *Context, args []Value) (Value, error) {
	id := uuid.New().String()
	if len(args) == 1 {
		n := int(args[0].ToNumber())
		if n >= 0 && n < len(id) {
			id = id[:n]
		}
	}
	return StringValue(id), nil
}

// fnSubstr implements ODK's substr(string, start, end?): 0-based,
// exclusive-end indexing (unlike XPath 1.0's 1-based, length-based
// substring()), with negative indices counting from the end of the
// string, mirroring JavaScript's String.slice that ODK form logic is
// usually ported from.
func fnSubstr(ctx *Context, args []Value) (Value, error) {
	runes := []rune(args[0].ToStringValue())
	n := len(runes)
	start := clampIndex(int(args[1].ToNumber()), n)
	end := n
	if len(args) == 3 {
		end = clampIndex(int(args[2].ToNumber()), n)
	}
	if start >= end {
		return StringValue(""), nil
	}
	return StringValue(string(runes[start:end])), nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// fnOnce implements once(x): the context node's current string-value
// stands if it is non-empty (the form already has an answer here);
// otherwise x is returned, with a stringified NaN mapped to "". Per-node
// memoization across submissions (the other half of XForms's once()) is
// a simplification this stateless, side-effect-free evaluator does not
// keep; see DESIGN.md.
func fnOnce(ctx *Context, args []Value) (Value, error) {
	if current := stringValueOf(ctx.ctxNode); current != "" {
		return StringValue(current), nil
	}
	s := args[0].ToStringValue()
	if s == "NaN" {
		s = ""
	}
	return StringValue(s), nil
}

func fnToday(ctx *Context, args []Value) (Value, error) { return DateValue(Today()), nil }

func fnNow(ctx *Context, args []Value) (Value, error) { return DateValue(Now()), nil }

func fnDate(ctx *Context, args []Value) (Value, error) {
	t, ok := args[0].ToDate()
	if !ok {
		return Value{}, newError(TypeErr, "unable to convert %s to date", args[0].ToStringValue())
	}
	return DateValue(t), nil
}

func fnDecimalDateTime(ctx *Context, args []Value) (Value, error) {
	t, ok := args[0].ToDate()
	if !ok {
		return NumberValue(math.NaN()), nil
	}
	return NumberValue(decimalDateTime(t)), nil
}

func fnDecimalTime(ctx *Context, args []Value) (Value, error) {
	return NumberValue(decimalTime(args[0].ToStringValue())), nil
}

// fnFormatDate implements both format-date and format-date-time, which
// share the same ODK strftime-subset pattern language.
func fnFormatDate(ctx *Context, args []Value) (Value, error) {
	t, ok := args[0].ToDate()
	if !ok {
		return StringValue(""), nil
	}
	return StringValue(renderDatePattern(ctx.ec.locale, t, args[1].ToStringValue())), nil
}

func geoPointsOf(v Value) ([]geo.Point, error) {
	set, err := v.ToNodeSet()
	if err != nil {
		return nil, err
	}
	pts := make([]geo.Point, 0, set.Len())
	for _, s := range set.StringValues() {
		if p, ok := parseGeopoint(s); ok {
			pts = append(pts, p)
		}
	}
	return pts, nil
}

func parseGeopoint(s string) (geo.Point, bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return geo.Point{}, false
	}
	var nums [4]float64
	for i := 0; i < len(fields) && i < 4; i++ {
		n, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return geo.Point{}, false
		}
		nums[i] = n
	}
	return geo.Point{Lat: nums[0], Lon: nums[1], Altitude: nums[2], Accuracy: nums[3]}, true
}

func fnArea(ctx *Context, args []Value) (Value, error) {
	pts, err := geoPointsOf(args[0])
	if err != nil {
		return Value{}, err
	}
	return NumberValue(geo.Area(pts)), nil
}

func fnDistance(ctx *Context, args []Value) (Value, error) {
	pts, err := geoPointsOf(args[0])
	if err != nil {
		return Value{}, err
	}
	return NumberValue(geo.Distance(pts)), nil
}

func fnAtan2(ctx *Context, args []Value) (Value, error) {
	return NumberValue(math.Atan2(args[0].ToNumber(), args[1].ToNumber())), nil
}

func fnPi(ctx *Context, args []Value) (Value, error) { return NumberValue(math.Pi), nil }
