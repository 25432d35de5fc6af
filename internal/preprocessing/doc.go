// Package preprocessing tokenizes and cleans text series before they are
// turned into vectors.
//
// Tokenize splits on whitespace and keeps punctuation as standalone tokens,
// without changing case. The cleaning steps (Lowercase, RemoveStopwords, Stem
// and friends) work on text series and, for tokenized series, on each token.
package preprocessing
