// Package domain defines the core types and interfaces for pantrycost.
// All other packages depend on domain; domain depends on nothing.
package domain

import "sort"

// Product is an entry of the product bank. Identity is the ID; the name
// and icon may be edited without changing identity.
type Product struct {
	ID   string
	Name string
	Icon Icon
}

// String returns the display name.
func (p Product) String() string { return p.Name }

// SortProductsByName orders products for display. Comparison is
// case-sensitive and byte-wise; ties keep their original order.
func SortProductsByName(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
}

// IconKind discriminates the Icon variant.
type IconKind int

const (
	// IconSymbol names a built-in symbol.
	IconSymbol IconKind = iota
	// IconImage carries raw image bytes.
	IconImage
)

// String returns the wire name of the icon kind.
func (k IconKind) String() string {
	switch k {
	case IconSymbol:
		return "system"
	case IconImage:
		return "image"
	default:
		return "unknown"
	}
}

// Icon is either a symbolic reference or an embedded image. Its contents
// are opaque to costing; only the catalog and the UI look inside.
type Icon struct {
	Kind  IconKind
	Name  string // set when Kind == IconSymbol
	Image []byte // set when Kind == IconImage
}

// SymbolicIcon returns an icon referring to a named symbol.
func SymbolicIcon(name string) Icon {
	return Icon{Kind: IconSymbol, Name: name}
}

// Label is the short text shown for the icon in listings.
func (i Icon) Label() string {
	if i.Kind == IconImage {
		return "image"
	}
	return i.Name
}

// EmbeddedImage returns an icon carrying image bytes.
func EmbeddedImage(data []byte) Icon {
	return Icon{Kind: IconImage, Image: data}
}
