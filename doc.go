/*
Package redline compares two revisions of an OOXML document — a
Word (.docx), Excel (.xlsx), or PowerPoint (.pptx) package — and
produces both a structured list of detected changes and a "marked"
derivative of the newer document with those changes recorded as
tracked revisions, cell annotations, or slide annotations, depending on
format.

Each format has its own entry point (CompareWordDocuments,
CompareSpreadsheets, ComparePresentations) since the three OOXML schemas
share only their package/relationship plumbing, not their content
models. All three follow the same shape: take two complete package byte
slices, an optional settings value, and return a format-specific result
carrying the marked document bytes plus a change list.
*/
package redline
