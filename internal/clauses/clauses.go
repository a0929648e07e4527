// Package clauses defines the closed clause-type taxonomy and risk labels
// used throughout the review pipeline. The taxonomy is a fixed set: adding
// or removing a clause type is a single-point change here.
package clauses

import "strings"

// Type identifies one of the legal topic categories a contract section may address.
type Type string

// The canonical clause-type taxonomy.
const (
	Roles             Type = "roles"
	SubjectDuration   Type = "subject_duration"
	PurposeNature     Type = "purpose_nature"
	DataCategories    Type = "data_categories_subjects"
	SecurityMeasures  Type = "security_measures"
	Subprocessors     Type = "subprocessors"
	Transfers         Type = "transfers"
	BreachNotice      Type = "breach_notification"
	DSARAssistance    Type = "dsar_assistance"
	DeletionReturn    Type = "deletion_return"
	AuditRights       Type = "audit_rights"
	Confidentiality   Type = "confidentiality"
	Liability         Type = "liability"
	GoverningLaw      Type = "governing_law"
	OrderOfPrecedence Type = "order_of_precedence"
)

var all = []Type{
	Roles,
	SubjectDuration,
	PurposeNature,
	DataCategories,
	SecurityMeasures,
	Subprocessors,
	Transfers,
	BreachNotice,
	DSARAssistance,
	DeletionReturn,
	AuditRights,
	Confidentiality,
	Liability,
	GoverningLaw,
	OrderOfPrecedence,
}

// critical clause types are treated as high risk when absent from a contract.
var critical = map[Type]bool{
	SecurityMeasures: true,
	BreachNotice:     true,
	DeletionReturn:   true,
	Transfers:        true,
}

// Alias table for labels used by externally authored playbooks.
var aliases = map[string]Type{
	"parties_and_roles": Roles,
	"security_toms":     SecurityMeasures,
	"breach_notice":     BreachNotice,
	"dsar":              DSARAssistance,
}

// All returns the complete taxonomy in canonical order.
func All() []Type {
	out := make([]Type, len(all))
	copy(out, all)
	return out
}

// Count is the size of the taxonomy.
func Count() int {
	return len(all)
}

// Critical reports whether the clause type's absence is treated as high risk.
func (t Type) Critical() bool {
	return critical[t]
}

// Label returns the clause type as a human-readable phrase.
func (t Type) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Valid reports whether t is a member of the taxonomy.
func (t Type) Valid() bool {
	for _, candidate := range all {
		if t == candidate {
			return true
		}
	}
	return false
}

// Resolve normalizes a free-form clause-type label (case, whitespace, hyphens)
// and maps it through the alias table to a canonical Type.
func Resolve(label string) (Type, bool) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	if t, ok := aliases[normalized]; ok {
		return t, true
	}

	t := Type(normalized)
	if t.Valid() {
		return t, true
	}
	return "", false
}
