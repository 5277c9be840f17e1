package models

import (
	"encoding/json"
	"fmt"
	"slices"
)

// HoldType distinguishes the role of a hold within a problem's sequence.
// Values match the numeric encoding used by the board clients.
type HoldType uint8

const (
	HoldStart  HoldType = 0
	HoldFoot   HoldType = 1
	HoldNormal HoldType = 2
	HoldEnd    HoldType = 3
)

// Hold is one entry of a problem's hold sequence. On the wire it is a
// two-element array: [position, type].
type Hold struct {
	Position uint16
	Type     HoldType
}

func (h Hold) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint16{h.Position, uint16(h.Type)})
}

func (h *Hold) UnmarshalJSON(data []byte) error {
	var raw [2]uint16
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw[1] > uint16(HoldEnd) {
		return fmt.Errorf("invalid hold type %d", raw[1])
	}
	h.Position = raw[0]
	h.Type = HoldType(raw[1])
	return nil
}

// Grade is one user's community grading of a problem. A user has at most one
// grade per problem; resubmitting replaces the previous entry.
type Grade struct {
	Username  string `json:"username"`
	Grade     uint8  `json:"grade"`
	Stars     uint8  `json:"stars"`
	CreatedAt string `json:"created_at"`
}

// BaseProblem carries the fields shared by every problem representation.
// UpdatedAt is unix seconds rendered as a string, matching the on-disk format
// written by earlier releases.
type BaseProblem struct {
	ID          uint32  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Author      string  `json:"author"`
	Grade       uint8   `json:"grade"`
	SectorID    uint16  `json:"sector_id"`
	UpdatedAt   string  `json:"updated_at"`
}

// Problem is the full record as persisted in problems.json.
type Problem struct {
	BaseProblem
	HoldSequence []Hold  `json:"hold_sequence"`
	Grades       []Grade `json:"grades"`
}

// ProblemSummary is the list-view representation: base fields plus community
// averages, without the hold sequence or individual grades.
type ProblemSummary struct {
	BaseProblem
	AverageGrade *float64 `json:"average_grade"`
	AverageStars *float64 `json:"average_stars"`
}

// ProblemDetail is the full record plus community averages.
type ProblemDetail struct {
	Problem
	AverageGrade *float64 `json:"average_grade"`
	AverageStars *float64 `json:"average_stars"`
}

// Clone returns a deep copy safe to hand out across lock boundaries.
func (p *Problem) Clone() Problem {
	out := *p
	out.HoldSequence = slices.Clone(p.HoldSequence)
	out.Grades = slices.Clone(p.Grades)
	if p.Description != nil {
		d := *p.Description
		out.Description = &d
	}
	return out
}

// Averages returns the mean community grade and star rating, or nils when no
// grades have been submitted.
func (p *Problem) Averages() (avgGrade, avgStars *float64) {
	if len(p.Grades) == 0 {
		return nil, nil
	}
	var gradeSum, starSum float64
	for _, g := range p.Grades {
		gradeSum += float64(g.Grade)
		starSum += float64(g.Stars)
	}
	n := float64(len(p.Grades))
	ag := gradeSum / n
	as := starSum / n
	return &ag, &as
}

// ToSummary converts the problem to its list-view representation.
func (p *Problem) ToSummary() ProblemSummary {
	ag, as := p.Averages()
	return ProblemSummary{BaseProblem: p.BaseProblem, AverageGrade: ag, AverageStars: as}
}

// ToDetail converts the problem to its detail-view representation.
func (p *Problem) ToDetail() ProblemDetail {
	ag, as := p.Averages()
	return ProblemDetail{Problem: *p, AverageGrade: ag, AverageStars: as}
}
