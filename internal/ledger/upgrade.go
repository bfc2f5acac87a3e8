package ledger

import "github.com/napolitain/techtree/internal/models"

// UpgradeFor returns the highest owned mark of name's line when it is
// above name's own mark, e.g. "Laser Mk3" for "Laser Mk1".
func (l *Ledger) UpgradeFor(name string) (string, bool) {
	line, mark, ok := models.SplitMark(name)
	if !ok {
		return "", false
	}
	best, bestMark := "", mark
	for owned := range l.owned {
		ownedLine, ownedMark, ok := models.SplitMark(owned)
		if !ok || ownedLine != line {
			continue
		}
		if ownedMark > bestMark {
			best, bestMark = owned, ownedMark
		}
	}
	return best, best != ""
}

// IsUpgradeable reports whether a higher mark of name's line is owned
func (l *Ledger) IsUpgradeable(name string) bool {
	_, ok := l.UpgradeFor(name)
	return ok
}
