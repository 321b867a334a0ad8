package schemaerr

import "strconv"

// Path builds dotted, JSON-pointer-like paths ("a.b[0].c"): "." for map
// traversal, "[i]" for sequence indices.
type Path string

// Root is the empty path.
const Root Path = ""

// Field appends a map key.
func (p Path) Field(name string) Path {
	if p == Root {
		return Path(name)
	}
	return Path(string(p) + "." + name)
}

// Index appends a sequence index.
func (p Path) Index(i int) Path {
	return Path(string(p) + "[" + strconv.Itoa(i) + "]")
}

// String returns the path's textual form.
func (p Path) String() string {
	return string(p)
}
