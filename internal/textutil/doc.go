// Package textutil provides small text helpers shared by the pipeline: word
// counting, sentence extraction, and filesystem-safe tokens.
//
// Words are whitespace-delimited fields. Sentences end at '.', '!' or '?'
// followed by whitespace or end of input; text without terminators counts as
// a single sentence.
package textutil
