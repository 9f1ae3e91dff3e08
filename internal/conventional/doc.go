// Package conventional classifies commit subjects following the Conventional
// Commits convention.
//
// This package implements:
//   - Commit and Category types shared by the rest of autorelease
//   - Header parsing (type, scope, breaking marker, description)
//   - Priority-ordered classification rules (first match wins)
//
// Classification is a pure function of its input: category order follows the
// fixed priority list and commits keep their input order inside a category.
package conventional
