package property

import (
	"unicode"
	"unicode/utf8"
)

// IsGetter reports whether the method name follows the getter convention:
// "GetX" or "IsX" with a non-empty suffix.
func IsGetter(name string) bool {
	return (len(name) > 3 && name[:3] == "Get") || (len(name) > 2 && name[:2] == "Is")
}

// IsSetter reports whether the method name follows the setter convention:
// "SetX" with a non-empty suffix.
func IsSetter(name string) bool {
	return len(name) > 3 && name[:3] == "Set"
}

// MethodToProperty strips the accessor prefix from a getter/setter method
// name and decapitalizes the remainder: "GetUserName" -> "userName",
// "IsActive" -> "active". Names that do not follow the convention are
// returned unchanged.
func MethodToProperty(name string) string {
	switch {
	case len(name) > 2 && name[:2] == "Is":
		return decapitalize(name[2:])
	case len(name) > 3 && (name[:3] == "Get" || name[:3] == "Set"):
		return decapitalize(name[3:])
	default:
		return name
	}
}

// FieldToProperty maps an exported struct field name onto its property name
// using the same decapitalization rule as MethodToProperty:
// "UserName" -> "userName", "URL" -> "URL".
func FieldToProperty(name string) string {
	return decapitalize(name)
}

// decapitalize lowers the first rune unless the second rune is also upper
// case, so acronym-led names like "URL" or "IDs" keep their casing.
func decapitalize(name string) string {
	first, size := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError && size <= 1 {
		return name
	}

	if len(name) > size {
		second, _ := utf8.DecodeRuneInString(name[size:])
		if unicode.IsUpper(second) {
			return name
		}
	}

	if !unicode.IsUpper(first) {
		return name
	}

	return string(unicode.ToLower(first)) + name[size:]
}
