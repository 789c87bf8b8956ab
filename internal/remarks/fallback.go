package remarks

// PointCount is the fixed number of remark points.
const PointCount = 4

// Remarks is the 4-point performance summary.
type Remarks [PointCount]string

// Fallback quadruples, one per percentage band. Substituted whenever the
// model output cannot be parsed into exactly four strings; the caller never
// observes the difference.
var (
	fallbackExcellent = Remarks{
		"Excellent performance achieved",
		"Strong command of the chapter concepts",
		"Accuracy stayed high throughout the test",
		"Keep up this level of preparation",
	}
	fallbackGood = Remarks{
		"Good performance overall",
		"Most concepts are well understood",
		"A few slips kept full marks away",
		"Review the missed questions to close the gaps",
	}
	fallbackAverage = Remarks{
		"Average performance shown",
		"Core ideas are only partly in place",
		"Several questions exposed weak spots",
		"Revise the chapter and attempt the test again",
	}
	fallbackBelowAverage = Remarks{
		"Below average performance",
		"The chapter needs a thorough revision",
		"Focus on fundamentals before moving ahead",
		"Practice more questions on this topic",
	}
)

// FallbackFor selects the fallback quadruple for a score percentage.
// Bands: [80,100] / [60,80) / [40,60) / [0,40).
func FallbackFor(percentage float64) Remarks {
	switch {
	case percentage >= 80:
		return fallbackExcellent
	case percentage >= 60:
		return fallbackGood
	case percentage >= 40:
		return fallbackAverage
	default:
		return fallbackBelowAverage
	}
}
