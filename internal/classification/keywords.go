package classification

import "github.com/veridia/clauseguard/internal/clauses"

// fallbackKeywords covers clause types the loaded playbook contributes no
// keywords for, so classification degrades gracefully on a bare deployment.
var fallbackKeywords = map[clauses.Type][]string{
	clauses.Roles:             {"controller", "processor", "sub-processor", "subprocessor"},
	clauses.SubjectDuration:   {"term", "duration", "effective date", "expiry"},
	clauses.PurposeNature:     {"purpose", "processing", "nature of processing"},
	clauses.DataCategories:    {"data subjects", "categories of data", "personal data"},
	clauses.SecurityMeasures:  {"technical and organizational measures", "organizational measures", "security measures", "encryption"},
	clauses.Subprocessors:     {"subprocessor", "sub-processor", "subprocessors"},
	clauses.Transfers:         {"transfer", "cross-border", "international transfer"},
	clauses.BreachNotice:      {"breach", "security incident", "notification"},
	clauses.DSARAssistance:    {"data subject request", "dsar", "assistance"},
	clauses.DeletionReturn:    {"deletion", "return", "destroy"},
	clauses.AuditRights:       {"audit", "inspection", "records"},
	clauses.Confidentiality:   {"confidential", "confidentiality"},
	clauses.Liability:         {"liability", "indemnity", "damages"},
	clauses.GoverningLaw:      {"governing law", "jurisdiction"},
	clauses.OrderOfPrecedence: {"order of precedence", "conflict"},
}
