// Package constants collects the OOXML namespace URIs, content types, and
// relationship type URIs the engine's three format pipelines need to
// recognize parts and splice markup, without depending on a schema
// library.
package constants

// Package-level root parts, shared across WML/SML/PML.
const (
	ContentTypesPart = "[Content_Types].xml"
	RootRelsPart     = "_rels/.rels"
)

// Format-specific main parts.
const (
	WMLMainDocumentPart = "word/document.xml"
	WMLStylesPart       = "word/styles.xml"
	WMLRelsPart         = "word/_rels/document.xml.rels"

	SMLWorkbookPart     = "xl/workbook.xml"
	SMLSharedStrings    = "xl/sharedStrings.xml"
	SMLWorkbookRelsPart = "xl/_rels/workbook.xml.rels"

	PMLPresentationPart     = "ppt/presentation.xml"
	PMLPresentationRelsPart = "ppt/_rels/presentation.xml.rels"
)

// Namespace URIs used across the three formats.
const (
	NamespacePackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"
	NamespaceContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"

	NamespaceWordprocessingML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceSpreadsheetML    = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	NamespacePresentationML   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NamespaceDrawingML        = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NamespaceRelationships    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	NamespaceW14 = "http://schemas.microsoft.com/office/word/2010/wordml"
)

// Content types for the per-extension defaults table and common overrides.
const (
	ContentTypeRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML           = "application/xml"

	ContentTypeWordDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeWordStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"

	ContentTypeExcelWorkbook  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ContentTypeExcelWorksheet = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"

	ContentTypePresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ContentTypeSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
)

// Relationship type URIs.
const (
	RelTypeOfficeDocument = NamespaceRelationships + "/officeDocument"
	RelTypeStyles         = NamespaceRelationships + "/styles"
	RelTypeWorksheet      = NamespaceRelationships + "/worksheet"
	RelTypeSlide          = NamespaceRelationships + "/slide"
	RelTypeHyperlink      = NamespaceRelationships + "/hyperlink"
	RelTypeImage          = NamespaceRelationships + "/image"
	RelTypeComments       = NamespaceRelationships + "/comments"
)

// EMUPerInch is the number of English Metric Units per inch (spec glossary).
const EMUPerInch = 914400

// DefaultAuthor is used for revision markup when no author is configured.
const DefaultAuthor = "redline"
