package analysis

import (
	"fmt"
	"strings"
)

// Kind is the calculation strategy behind an analysis type.
type Kind int

const (
	KindLTR Kind = iota
	KindBRRRR
	KindLeaseOption
	KindMultiFamily
)

func (k Kind) String() string {
	switch k {
	case KindLTR:
		return "LTR"
	case KindBRRRR:
		return "BRRRR"
	case KindLeaseOption:
		return "Lease Option"
	case KindMultiFamily:
		return "Multi-Family"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Type is a parsed analysis_type: a strategy plus the PadSplit expense flag.
type Type struct {
	Kind     Kind
	PadSplit bool
}

// Name returns the analysis_type string for t.
func (t Type) Name() string {
	if t.PadSplit {
		return "PadSplit " + t.Kind.String()
	}
	return t.Kind.String()
}

func (t Type) String() string {
	return t.Name()
}

var analysisTypes = map[string]Type{
	"LTR":            {Kind: KindLTR},
	"PadSplit LTR":   {Kind: KindLTR, PadSplit: true},
	"BRRRR":          {Kind: KindBRRRR},
	"PadSplit BRRRR": {Kind: KindBRRRR, PadSplit: true},
	"Lease Option":   {Kind: KindLeaseOption},
	"Multi-Family":   {Kind: KindMultiFamily},
}

// ParseType maps an analysis_type string onto its Type. Matching is exact
// after trimming surrounding whitespace.
func ParseType(name string) (Type, error) {
	t, ok := analysisTypes[strings.TrimSpace(name)]
	if !ok {
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownAnalysisType, name)
	}
	return t, nil
}

// SupportedTypes lists every accepted analysis_type string.
func SupportedTypes() []string {
	return []string{"LTR", "PadSplit LTR", "BRRRR", "PadSplit BRRRR", "Lease Option", "Multi-Family"}
}
