// Package specsheet extracts structured product specification records from
// a small set of known vendor PDF templates (M12 connector catalogs, the
// CB-S 260 incubator data sheet and a technical-information page) and loads
// them into a relational store and a JSONL export.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, pdf/, pdfcpu/).
package specsheet
