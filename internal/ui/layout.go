package ui

// panelLayout describes where the fixed regions of the dashboard land on
// screen. View renders with it and Update routes mouse clicks with it, so
// the two can never disagree.
type panelLayout struct {
	headerH int // hero + banner + notice lines
	mainH   int // signals | graph | logs row
	infoH   int // metrics + benchmark + session row
	feedW   int // outer width of the signals panel
	logsW   int // outer width of the logs panel
	graphW  int // outer width of the graph panel

	// Inner content rectangle of the graph panel, in screen cells.
	graphInnerX int
	graphInnerY int
	graphInnerW int
	graphInnerH int
}

const (
	feedPanelWidth = 30
	logsPanelWidth = 34
	infoRowHeight  = 10
	statusBarRows  = 1
)

func (m Model) panelLayout() panelLayout {
	l := panelLayout{
		headerH: m.heroH + 2, // banner line + notice line
		infoH:   infoRowHeight,
		feedW:   feedPanelWidth,
		logsW:   logsPanelWidth,
	}
	l.graphW = m.width - l.feedW - l.logsW
	if l.graphW < 20 {
		l.graphW = 20
	}
	l.mainH = m.height - l.headerH - l.infoH - statusBarRows
	if l.mainH < 8 {
		l.mainH = 8
	}
	// Graph panel: rounded border all around, one title line at the top.
	l.graphInnerX = l.feedW + 1
	l.graphInnerY = l.headerH + 2
	l.graphInnerW = l.graphW - 2
	l.graphInnerH = l.mainH - 3
	if l.graphInnerW < 1 {
		l.graphInnerW = 1
	}
	if l.graphInnerH < 1 {
		l.graphInnerH = 1
	}
	return l
}
