package score

// Tier is the lettered rank a score percentage maps to.
type Tier uint8

const (
	TierQuad Tier = iota
	TierThreeStar
	TierTwoStar
	TierOneStar
	TierSPlus
	TierS
	TierSMinus
	TierAPlus
	TierA
	TierAMinus
	TierBPlus
	TierB
	TierBMinus
	TierCPlus
	TierC
	TierCMinus
	TierD
	TierFailed
)

var tierNames = []string{
	"****", "***", "**", "*",
	"S+", "S", "S-",
	"A+", "A", "A-",
	"B+", "B", "B-",
	"C+", "C", "C-",
	"D", "F",
}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "?"
}

var tierThresholds = []struct {
	percent float64
	tier    Tier
}{
	{1.00, TierQuad},
	{0.99, TierThreeStar},
	{0.98, TierTwoStar},
	{0.96, TierOneStar},
	{0.94, TierSPlus},
	{0.92, TierS},
	{0.89, TierSMinus},
	{0.86, TierAPlus},
	{0.83, TierA},
	{0.80, TierAMinus},
	{0.76, TierBPlus},
	{0.72, TierB},
	{0.68, TierBMinus},
	{0.64, TierCPlus},
	{0.60, TierC},
	{0.55, TierCMinus},
}

// TierFor maps a 0..1 score percentage to its rank. Failure overrides
// the percentage entirely.
func TierFor(percent float64, failed bool) Tier {
	if failed {
		return TierFailed
	}
	for _, t := range tierThresholds {
		if percent >= t.percent {
			return t.tier
		}
	}
	return TierD
}
