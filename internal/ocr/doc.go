// Package ocr provides Optical Character Recognition (OCR) functionality using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2) behind the
// Recognizer interface. Callers pass a decoded image, an optional crop region
// and a page segmentation Mode, and get the raw recognized text back.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//   - Windows: Download from https://github.com/UB-Mannheim/tesseract/wiki
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// When the language data lives somewhere non-standard, set Options.TessdataPrefix
// (PHOTO_OCR_TESSDATA_PREFIX) to the directory holding the .traineddata files.
//
// # Startup Check
//
// Tesseract.Check runs a test recognition and returns ErrEngineUnavailable
// if the engine cannot be initialized. Batch runs call it before the first
// photo.
//
// # Modes
//
//   - ModeAuto: Tesseract's default automatic segmentation, used on full photos
//   - ModeSingleBlock: one uniform text block (psm 6), used on address crops
//
// # Error Handling
//
// Functions return errors for:
//   - Empty crop regions
//   - Unsupported language codes or missing tessdata
//   - Tesseract initialization or recognition failures
//
// Empty recognized text is returned as "" with a nil error.
package ocr
