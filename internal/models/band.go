package models

// bandStep maps a minimum raw score (out of 40) to a band.
type bandStep struct {
	MinRaw int
	Band   float64
}

var listeningBands = []bandStep{
	{39, 9}, {37, 8.5}, {35, 8}, {32, 7.5}, {30, 7}, {26, 6.5},
	{23, 6}, {18, 5.5}, {16, 5}, {13, 4.5}, {10, 4}, {8, 3.5},
	{6, 3}, {4, 2.5}, {2, 2}, {1, 1},
}

var readingBands = []bandStep{
	{39, 9}, {37, 8.5}, {35, 8}, {33, 7.5}, {30, 7}, {27, 6.5},
	{23, 6}, {19, 5.5}, {15, 5}, {13, 4.5}, {10, 4}, {8, 3.5},
	{6, 3}, {4, 2.5}, {2, 2}, {1, 1},
}

// BandScore converts a raw score to an IELTS band. Scores on exams that are
// not 40 questions long are scaled to 40 first. Writing and speaking are
// examiner rated and have no conversion.
func BandScore(skill Skill, correct, total int) (float64, bool) {
	var table []bandStep
	switch skill {
	case SkillListening:
		table = listeningBands
	case SkillReading:
		table = readingBands
	default:
		return 0, false
	}
	if total <= 0 {
		return 0, false
	}

	raw := correct
	if total != 40 {
		raw = (correct*40 + total/2) / total
	}
	for _, step := range table {
		if raw >= step.MinRaw {
			return step.Band, true
		}
	}
	return 0, true
}
