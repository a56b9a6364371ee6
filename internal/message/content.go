// Package message defines the outbound payload types handed to the send
// callback: either a plain text string or an ordered sequence of typed
// content parts (text plus an image reference).
package message

import "encoding/json"

// Part type identifiers for multimodal content.
const (
	TypeText     = "text"
	TypeImageURL = "image_url"
)

// ImageURL references an encoded image, typically a base64 data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// ContentPart is a single part of a multimodal payload.
// Exactly one of Text or ImageURL is set, discriminated by Type.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// TextPart constructs a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: TypeText, Text: text}
}

// ImageURLPart constructs an image_url content part.
func ImageURLPart(url string) ContentPart {
	return ContentPart{Type: TypeImageURL, ImageURL: &ImageURL{URL: url}}
}

// Content is the value passed to the send callback.
// Text-only messages carry the raw string; messages with an attached image
// carry the ordered part sequence instead.
type Content struct {
	Text  string
	Parts []ContentPart
}

// Text constructs a plain text payload.
func Text(text string) Content {
	return Content{Text: text}
}

// Multimodal constructs a payload from an ordered part sequence.
func Multimodal(parts ...ContentPart) Content {
	return Content{Parts: parts}
}

// IsMultimodal reports whether the payload carries content parts
// rather than a plain string.
func (c Content) IsMultimodal() bool {
	return len(c.Parts) > 0
}

// MarshalJSON emits the wire shape of the payload: a JSON string for
// text-only content, a JSON array of parts otherwise.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsMultimodal() {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}
