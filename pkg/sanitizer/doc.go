// Package sanitizer normalizes inquiry input before it is validated.
//
// Every function is idempotent and never fails: input that cannot be
// normalized comes back empty, and the validator reports it from there.
//
//   - Single-line text: trimmed, inner whitespace collapsed to one space
//   - Long text: trimmed, line endings unified to "\n"
//   - Multi-select values: trimmed, empty entries and duplicates dropped
//   - Phone numbers: E.164 (+[country][number]) when parseable
package sanitizer
