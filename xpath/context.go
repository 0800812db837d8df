package xpath

// Context is the evaluation context threaded through every Eval call:
// the current node, its proximity position and the context size, the
// bound variables and functions, and the namespace-prefix map resolved
// once at Compile time. Context.Clone shares Vars/Funcs/NSMap/ec by
// reference across a single Evaluate call (spec.md §4.E invariant), only
// ctxNode/Position/Size change per step.
type Context struct {
	ctxNode  Node
	Position int
	Size     int
	Vars     map[string]Value
	Funcs    *FuncRegistry
	NSMap    map[string]string
	ec       *evalCtx
}

// NewContext builds the root Context for evaluating an expression against
// ctxNode as a singleton context (position 1, size 1).
func NewContext(ctxNode Node, vars map[string]Value, funcs *FuncRegistry, nsMap map[string]string, opts Options) *Context {
	if vars == nil {
		vars = map[string]Value{}
	}
	return &Context{
		ctxNode: ctxNode, Position: 1, Size: 1,
		Vars: vars, Funcs: funcs, NSMap: nsMap, ec: newEvalCtx(opts),
	}
}

// Clone returns a Context for node at the given proximity position within
// a context of size, sharing everything else with c.
func (c *Context) Clone(node Node, position, size int) *Context {
	return &Context{
		ctxNode: node, Position: position, Size: size,
		Vars: c.Vars, Funcs: c.Funcs, NSMap: c.NSMap, ec: c.ec,
	}
}

// ContextNode returns c's current node.
func (c *Context) ContextNode() Node { return c.ctxNode }

// ResolveVarKey turns a $prefix:local variable reference into the lookup
// key used against c.Vars: the bare local name when unprefixed, or
// "uri local" once the prefix is resolved against c.NSMap (spec.md §9's
// resolution of the "$name lookup" open question, against Context.Vars
// rather than any external variable-resolver collaborator).
func (c *Context) ResolveVarKey(prefix, local string) string {
	if prefix == "" {
		return local
	}
	if uri, ok := c.NSMap[prefix]; ok {
		return uri + " " + local
	}
	return prefix + ":" + local
}
