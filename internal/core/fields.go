package core

import "strings"

// Field is a logical column that may be spelled several ways across sheets.
type Field int

const (
	FieldModel Field = iota
	FieldVendor
	FieldComponent
	FieldID
	FieldFirmwareVersion
	FieldDriverVersion
	FieldOS
)

// fieldAliases lists the accepted header spellings per logical field.
// Order is priority: the first spelling present with a non-blank value wins.
var fieldAliases = map[Field][]string{
	FieldModel:           {"description", "Description", "Model Name", "Model"},
	FieldVendor:          {"vendor", "Vendor"},
	FieldComponent:       {"component", "Component"},
	FieldID:              {"swid", "SWID"},
	FieldFirmwareVersion: {"FW Version", "FW"},
	FieldDriverVersion:   {"driver", "Driver", "Version"},
	FieldOS:              {"Operating System", "OS", "os"},
}

// String returns the field's canonical name.
func (f Field) String() string {
	switch f {
	case FieldModel:
		return "model"
	case FieldVendor:
		return "vendor"
	case FieldComponent:
		return "component"
	case FieldID:
		return "id"
	case FieldFirmwareVersion:
		return "firmwareVersion"
	case FieldDriverVersion:
		return "driverVersion"
	case FieldOS:
		return "os"
	default:
		return "unknown"
	}
}

// Aliases returns a copy of the header spellings accepted for f, in priority order.
func Aliases(f Field) []string {
	return append([]string(nil), fieldAliases[f]...)
}

// Resolve returns the trimmed value of the first alias of f that is present
// in row and non-blank. Keys are matched case-sensitively.
func Resolve(row RawRow, f Field) (string, bool) {
	for _, key := range fieldAliases[f] {
		v, ok := row[key]
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
	}
	return "", false
}

// ResolveOS resolves the OS label of a row, falling back to the sheet name.
func ResolveOS(row RawRow, sheet Sheet) string {
	if os, ok := Resolve(row, FieldOS); ok {
		return os
	}
	return sheet.Name
}
