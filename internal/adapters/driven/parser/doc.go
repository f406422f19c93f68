// Package parser extracts text and tables from stored files.
//
// A Registry dispatches on file extension to format parsers for PDF, DOCX,
// spreadsheets and images. Anything else is decoded as UTF-8 text.
package parser
