package services

// AuditLogger receives best-effort records of successful writes.
// A nil AuditLogger disables auditing.
type AuditLogger interface {
	LogCreate(userID uint, entityType string, entityID uint, name string)
}

// ImportResult contains the outcome of a lexicon import.
type ImportResult struct {
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Errors   []ImportLineError `json:"errors,omitempty"`
}

// ImportLineError describes one entry that could not be added.
type ImportLineError struct {
	Line int    `json:"line"`
	Word string `json:"word"`
	Err  string `json:"error"`
}
