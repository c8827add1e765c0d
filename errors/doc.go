// Package errors defines the classified error taxonomy surfaced by the
// request pipeline. Every failure a caller sees is one of the kinds
// declared here, carrying the upstream dependency name, the endpoint,
// and the number of attempts made.
//
// Rejections inside the pipeline (cache miss, rate-limit denial, open
// circuit) are ordinary result values in their own packages; they are
// converted into these errors only at the pipeline boundary.
package errors
