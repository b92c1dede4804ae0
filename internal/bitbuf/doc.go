// Package bitbuf holds demodulated bit rows as produced by the radio
// capture front end.
//
// A Row is one candidate transmission: raw bits packed MSB-first into
// bytes, together with the exact number of valid bits. A capture may
// contain several rows for a single reception (the pulse slicer emits a
// new row whenever it loses bit lock), and device decoders try them in
// order.
//
// Rows are immutable once built. Transformations such as polarity
// inversion return a new Row rather than touching the caller's storage,
// so a row can be offered to any number of decoders in any order.
//
// The textual form accepted by ParseRow and produced by String is the
// row literal used throughout logs, capture files and test corpora:
//
//	{<bitcount>}<hex bytes>
//
// for example {90}f20a8cd59c33bcbb9ff6f000.
package bitbuf
