package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Grade is a grade-level tag.
type Grade string

const (
	GradePK   Grade = "PK"
	GradeK    Grade = "K"
	Grade1    Grade = "1"
	Grade2    Grade = "2"
	Grade3    Grade = "3"
	Grade4    Grade = "4"
	Grade5    Grade = "5"
	Grade6    Grade = "6"
	Grade7    Grade = "7"
	Grade8    Grade = "8"
	GradeAlg1 Grade = "Alg1"
	GradeAlg2 Grade = "Alg2"
)

// AllGrades returns all grades in display order.
func AllGrades() []Grade {
	return []Grade{
		GradePK, GradeK,
		Grade1, Grade2, Grade3, Grade4, Grade5, Grade6, Grade7, Grade8,
		GradeAlg1, GradeAlg2,
	}
}

// ParseGrade maps a grade tag to a Grade.
func ParseGrade(s string) (Grade, error) {
	for _, g := range AllGrades() {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown grade %q", s)
}

// DisplayName returns a human-readable name for a grade.
func (g Grade) DisplayName() string {
	switch g {
	case GradePK:
		return "Pre-K"
	case GradeK:
		return "Kindergarten"
	case GradeAlg1:
		return "Algebra 1"
	case GradeAlg2:
		return "Algebra 2"
	default:
		return "Grade " + string(g)
	}
}

// Answer is the canonical answer of a question in its text form.
// Bank files may give it as a JSON string, number or boolean.
type Answer string

func (a Answer) String() string {
	return string(a)
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*a = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = Answer(s)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*a = Answer(b)
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("answer: unsupported value %s", b)
		}
		*a = Answer(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

// Question is a single record from a question bank. Questions are never
// mutated after load.
type Question struct {
	ID         string          `json:"id"`
	Grade      Grade           `json:"grade,omitempty"`
	SkillCode  string          `json:"skillCode,omitempty"`
	Prompt     string          `json:"prompt,omitempty"`
	Difficulty int             `json:"difficulty"`
	Engine     string          `json:"engine"`
	Data       json.RawMessage `json:"data,omitempty"`
	Answer     Answer          `json:"answer"`
}

// UnmarshalJSON accepts numeric ids and the legacy "question" key used by
// older bank files in place of "prompt".
func (q *Question) UnmarshalJSON(b []byte) error {
	type plain Question
	var raw struct {
		plain
		ID       json.RawMessage `json:"id"`
		Question string          `json:"question"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*q = Question(raw.plain)
	q.ID = rawID(raw.ID)
	if q.Prompt == "" {
		q.Prompt = raw.Question
	}
	return nil
}

func rawID(b json.RawMessage) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	return string(b)
}
