package cache

import "fmt"

const (
	SubmissionPrefix   = "submission"
	SectionGradePrefix = "section_grade"
)

func SubmissionKey(id uint) string {
	return fmt.Sprintf("id:%d", id)
}

func SectionGradeKey(submissionID uint, groupID string) string {
	return fmt.Sprintf("sub:%d:group:%s", submissionID, groupID)
}

