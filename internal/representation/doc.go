// Package representation turns tokenized text series into numeric vectors.
//
// TermFrequency produces raw token counts over a corpus-wide vocabulary whose
// positions follow first occurrence. TFIDF weights those counts by the
// smoothed inverse document frequency
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// and scales each document vector to unit L2 norm. Both accept untokenized
// series for backwards compatibility: the series is tokenized on the fly and
// the result carries a WarningDeprecation, which is also logged.
package representation
