package osr

// Client versions (yyyymmdd) that changed the replay trailer.
const (
	// VersionScoreID32 is the first version that stores an online score id.
	VersionScoreID32 = 20121008
	// VersionScoreID64 widened the online score id to 64 bits.
	VersionScoreID64 = 20140721
)

// layout describes the fields after the compressed replay data. Decode and
// Encode both branch on it so the two can never disagree.
type layout struct {
	scoreIDSize    int // 0, 4 or 8 bytes
	targetAccuracy bool
}

// layoutFor picks the trailer layout. Only the version and the
// TargetPractice mod matter; the game mode does not change the trailer.
func layoutFor(version uint32, mods Mods) layout {
	var l layout
	switch {
	case version >= VersionScoreID64:
		l.scoreIDSize = 8
	case version >= VersionScoreID32:
		l.scoreIDSize = 4
	}
	l.targetAccuracy = mods.Has(TargetPractice)
	return l
}
