// Package ocr is the boundary to the text-recognition engine.
//
// The pipeline only depends on the Recognizer interface: an image goes in, a
// single string of recognised text comes out. Tesseract (via gosseract/v2) is
// the engine shipped with this module.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-kor
//   - macOS: brew install tesseract tesseract-lang
//
// The default language hint is "kor+eng", matching Korean tooltips that mix in
// Latin digits and symbols.
//
// # Progress
//
// A ProgressFunc receives the recognition phase and a completion fraction in
// [0,1]. Progress is informational; nothing downstream depends on it.
//
// # Normalization
//
// Recognised text is NFC-normalised and fullwidth ASCII is folded to its
// narrow form before it is returned, so that "＋１５％" compares equal to
// "+15%" and decomposed Hangul matches composed labels.
//
// # Error Handling
//
// Recognize returns an error when the engine cannot be initialised, the image
// cannot be encoded, or the context is cancelled. The caller must not parse
// anything in that case.
package ocr
