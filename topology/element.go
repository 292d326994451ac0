package topology

// ElementKind tags the kind of mesh element that carries extra attributes.
// The value doubles as the prefix of the element's group id ("c3", "r3",
// "l3_North").
type ElementKind string

const (
	KindCore    ElementKind = "c"
	KindRouter  ElementKind = "r"
	KindChannel ElementKind = "l"
)

// An Element is a mesh element that carries attributes the routing engine
// does not care about, as found in the configuration file.
type Element interface {
	Kind() ElementKind
	ExtraAttributes() map[string]string
}
