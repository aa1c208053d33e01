// Package plan builds the column resolution table: the binding between the
// physical columns of a sheet and the column descriptors of a record type.
//
// Resolution pipeline:
//  1. Descriptors with an explicit index claim their column
//  2. Descriptors with a header name claim the first unclaimed column whose
//     header matches, trying exact, case-folded and normalized comparison in turn
//  3. Remaining columns become dynamic slots or are offered to the filter
//  4. Emit diagnostics (missing columns with suggestions, out of range indexes)
package plan
