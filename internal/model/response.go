package model

// ItemKind tags a ResponseItem. Go has no sum types, so the variant is a
// struct with a discriminator and the fields for each case.
type ItemKind string

const (
	KindText  ItemKind = "text"
	KindImage ItemKind = "image"
)

// ResponseItem is one element of an assembled answer: either a
// markdown-flavored text block or a reference to a rendered chart.
type ResponseItem struct {
	Kind ItemKind `json:"kind"`
	Text string   `json:"text,omitempty"`
	Path string   `json:"path,omitempty"`
	URL  string   `json:"url,omitempty"` // filled in by the HTTP front end
}

// TextItem builds a text response item.
func TextItem(text string) ResponseItem {
	return ResponseItem{Kind: KindText, Text: text}
}

// ImageItem builds an image response item pointing at a chart file.
func ImageItem(path string) ResponseItem {
	return ResponseItem{Kind: KindImage, Path: path}
}

// IsImage reports whether the item is a chart reference.
func (r ResponseItem) IsImage() bool { return r.Kind == KindImage }
