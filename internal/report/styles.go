package report

// RunStyle captures the inline run formatting used in the report.
type RunStyle struct {
	Bold   bool
	Italic bool
	Size   int
	Color  string
}

const (
	TitleColor   = "111111"
	HeadingColor = "1F2937"
	TitleSize    = 32
	HeadingSize  = 24
)

var (
	titleStyle   = RunStyle{Bold: true, Size: TitleSize, Color: TitleColor}
	headingStyle = RunStyle{Bold: true, Size: HeadingSize, Color: HeadingColor}
	scoreStyle   = RunStyle{Bold: true, Size: HeadingSize}
	metaStyle    = RunStyle{Italic: true}
	bodyStyle    = RunStyle{}
)
