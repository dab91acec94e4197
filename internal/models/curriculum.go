package models

// Subject is one of the four tracked school subjects.
type Subject string

const (
	SubjectJapanese      Subject = "Japanese"
	SubjectMath          Subject = "Math"
	SubjectScience       Subject = "Science"
	SubjectSocialStudies Subject = "Social Studies"
)

// Subjects lists every subject in display order.
var Subjects = []Subject{SubjectJapanese, SubjectMath, SubjectScience, SubjectSocialStudies}

// Valid reports whether s is a known subject.
func (s Subject) Valid() bool {
	return s.Order() >= 0
}

// Before orders subjects by display position, unknown subjects last by name.
func (s Subject) Before(other Subject) bool {
	oa, ob := s.Order(), other.Order()
	if oa < 0 {
		oa = len(Subjects)
	}
	if ob < 0 {
		ob = len(Subjects)
	}
	if oa != ob {
		return oa < ob
	}
	return s < other
}

// Order returns the display position of the subject, or -1 when unknown.
func (s Subject) Order() int {
	for i, known := range Subjects {
		if known == s {
			return i
		}
	}
	return -1
}

// LessonType identifies the curriculum track a test belongs to.
type LessonType string

const (
	LessonRegular LessonType = "Regular"
	LessonSpring  LessonType = "Spring"
	LessonSummer  LessonType = "Summer"
	LessonWinter  LessonType = "Winter"
)

// LessonTypes lists every lesson type in display order.
var LessonTypes = []LessonType{LessonRegular, LessonSpring, LessonSummer, LessonWinter}

// Valid reports whether l is a known lesson type.
func (l LessonType) Valid() bool {
	return l.Order() >= 0
}

// Order returns the display position of the lesson type, or -1 when unknown.
func (l LessonType) Order() int {
	for i, known := range LessonTypes {
		if known == l {
			return i
		}
	}
	return -1
}

// CurriculumUnit is static reference data describing what a lesson slot covers.
// A slot may map to several units.
type CurriculumUnit struct {
	Subject    Subject    `db:"subject" json:"subject"`
	LessonType LessonType `db:"lesson_type" json:"lesson_type"`
	TestNumber int        `db:"test_number" json:"test_number"`
	UnitName   string     `db:"unit_name" json:"unit_name"`
	Content    *string    `db:"content" json:"content,omitempty"`
}

// Slot returns the curriculum slot the unit belongs to.
func (u CurriculumUnit) Slot() ResultKey {
	return ResultKey{LessonType: u.LessonType, TestNumber: u.TestNumber, Subject: u.Subject}
}

// CurriculumFilter narrows curriculum listings. Zero values match everything.
type CurriculumFilter struct {
	Subject    Subject
	LessonType LessonType
	TestNumber int
}

// Matches reports whether the unit satisfies every set field of the filter.
func (f CurriculumFilter) Matches(u CurriculumUnit) bool {
	if f.Subject != "" && f.Subject != u.Subject {
		return false
	}
	if f.LessonType != "" && f.LessonType != u.LessonType {
		return false
	}
	if f.TestNumber != 0 && f.TestNumber != u.TestNumber {
		return false
	}
	return true
}
