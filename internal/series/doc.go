// Package series provides the column types the representation functions
// consume and produce: Series, an ordered collection of documents held either
// as raw text or as token sequences, and VectorSeries, the positionally
// aligned vectors computed from it.
package series
