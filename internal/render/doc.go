// Package render produces aligned text tables, single-record views, and
// packed column grids for console output.
//
// Every function is pure: it returns a text block and leaves printing to the
// caller. Column widths are computed independently per column as the maximum
// of the header length and every displayed value's length, plus a fixed
// two-space gutter. Preamble and footer text, when supplied, are separated
// from the body by a single blank line.
package render
