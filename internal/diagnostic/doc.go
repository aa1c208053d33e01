// Package diagnostic provides structured warnings and errors produced while
// merging column declarations and resolving them against a sheet header.
//
// Key capabilities:
//   - Declared columns missing from the header, with "did you mean" suggestions
//   - Explicit indexes beyond the header width
//   - Column indexes taken over by a stronger declaration
package diagnostic
