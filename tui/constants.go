package tui

const (
	tableVerticalPadding = 4
	borderPadding        = 6

	seqColumnWidth     = 8
	timeColumnWidth    = 14
	channelColumnWidth = 4
	idColumnWidth      = 8
	dirColumnWidth     = 4
	lengthColumnWidth  = 4
	dataColumnWidth    = 24
	minSignalsWidth    = 16
	maxSignalsWidth    = 80

	// Filter modal cursor positions
	filterCursorRx        = 0
	filterCursorTx        = 1
	filterCursorIDOn      = 2
	filterCursorIDMode    = 3
	filterCursorIDInput   = 4
	filterCursorTimeInput = 5
	filterCursorLenInput  = 6
	filterCursorReset     = 7
	filterCursorCount     = 8
)

// pendingCell is what an unmaterialized row shows while its chunk is
// being prepared in the background.
const pendingCell = "···"
