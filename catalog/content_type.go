package catalog

import "fmt"

// ContentType identifies which catalog level a breadcrumb segment points
// at. The zero value is invalid; parse user input with ParseContentType.
type ContentType int

const (
	ContentTypeInvalid ContentType = iota
	ContentTypeConfig
	ContentTypeType
	ContentTypeProduct
	ContentTypeSource
)

// ParseContentType maps a wire tag to a ContentType. Unknown tags come
// back as ContentTypeInvalid with ok=false; the resolver treats those as
// terminal, not as errors.
func ParseContentType(tag string) (ContentType, bool) {
	switch tag {
	case "config":
		return ContentTypeConfig, true
	case "type":
		return ContentTypeType, true
	case "abstractproduct":
		return ContentTypeProduct, true
	case "source":
		return ContentTypeSource, true
	}
	return ContentTypeInvalid, false
}

// String returns the wire tag for the content type
func (ct ContentType) String() string {
	switch ct {
	case ContentTypeConfig:
		return "config"
	case ContentTypeType:
		return "type"
	case ContentTypeProduct:
		return "abstractproduct"
	case ContentTypeSource:
		return "source"
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler so content types
// serialize as their wire tags in JSON responses
func (ct ContentType) MarshalText() ([]byte, error) {
	return []byte(ct.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (ct *ContentType) UnmarshalText(text []byte) error {
	parsed, ok := ParseContentType(string(text))
	if !ok {
		return fmt.Errorf("unknown content type %q", string(text))
	}
	*ct = parsed
	return nil
}
