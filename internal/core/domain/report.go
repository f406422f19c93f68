package domain

// BlockKind is the type of a report block.
type BlockKind string

// Report block kinds.
const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockTable     BlockKind = "table"
)

// ReportBlock is one renderable unit of a report, in output order.
type ReportBlock struct {
	Kind BlockKind
	Text string
}

// ReportRequest describes a report to assemble.
type ReportRequest struct {
	Sections       []string
	IncludeSummary bool
}

// SummaryHeading is the heading of the optional final summary block.
const SummaryHeading = "Summary"
