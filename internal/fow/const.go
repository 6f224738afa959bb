package fow

const (
	// MaxTeams is the number of team grids a FoW can hold.
	MaxTeams = 8

	// MaxHeightGroup is the highest height group a viewer or occluder can use.
	MaxHeightGroup = 7

	// MaxDegree is the internal cap on a cell's visibility degree. The
	// headroom above ReportedMaxDegree keeps cells at full visibility for a
	// while after they leave view.
	MaxDegree = 1.5

	// ReportedMaxDegree caps the degree returned to callers.
	ReportedMaxDegree = 1.0

	// MaxGridCells bounds gridXUnits x gridYUnits for one team grid.
	MaxGridCells = 1 << 24

	// minSafeRadius is the smallest radius accepted when safety checks are on.
	minSafeRadius = 0.01
)

// Cell flag bits of a team grid.
const (
	// FlagVisible is set while at least one team viewer sees the cell.
	FlagVisible uint8 = 1 << 0
	// FlagWasVisible is set once the cell has ever been visible.
	FlagWasVisible uint8 = 1 << 1

	heightGroupShift      = 2
	heightGroupMask  uint8 = 0x07 << heightGroupShift
)

// HeightGroupFromFlags returns the highest height group of the viewers that
// saw the cell during the last solve.
func HeightGroupFromFlags(flags uint8) int {
	return int((flags & heightGroupMask) >> heightGroupShift)
}

func withHeightGroup(flags uint8, group int) uint8 {
	return (flags &^ heightGroupMask) | (uint8(group)<<heightGroupShift)&heightGroupMask
}

// occludes applies the height rule: ground level on either side always
// participates, otherwise the occluder must be at least as high as the
// viewer.
func occludes(viewerGroup, occluderGroup int) bool {
	if viewerGroup == 0 || occluderGroup == 0 {
		return true
	}
	return occluderGroup >= viewerGroup
}
