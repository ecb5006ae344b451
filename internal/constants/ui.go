package constants

// HeaderSeparatorLength is the length of the header separator line.
const HeaderSeparatorLength = 50

// ReasonPreviewLength is the number of reason characters shown per row in history tables.
const ReasonPreviewLength = 60
