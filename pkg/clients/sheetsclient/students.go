package sheetsclient

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/coot-trips/tripsort/pkg/core/model"
)

// Expected column names in the students tab
const (
	colStudentID    = "Student ID"
	colFirstName    = "First name"
	colLastName     = "Last name"
	colEmail        = "Email"
	colTripPref1    = "Trip preference 1"
	colTripPref2    = "Trip preference 2"
	colTripPref3    = "Trip preference 3"
	colDorm         = "Dorm"
	colAthleticTeam = "Athletic team"
	colGender       = "Gender"
	colWaterComfort = "Water comfort"
	colTentComfort  = "Tent comfort"
)

var validate = validator.New()

var studentFields = []string{
	colStudentID,
	colFirstName,
	colLastName,
	colEmail,
	colTripPref1,
	colTripPref2,
	colTripPref3,
	colDorm,
	colAthleticTeam,
	colGender,
	colWaterComfort,
	colTentComfort,
}

// ListStudents reads and parses the students tab of a roster spreadsheet
func (c *Client) ListStudents(ctx context.Context, spreadsheetID, tab string) ([]*model.Student, error) {
	values, err := c.GetValues(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get student data: %w", err)
	}

	students, err := parseStudents(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse students: %w", err)
	}

	return students, nil
}

// parseStudents converts raw spreadsheet rows into students; rows without a student ID are skipped
func parseStudents(raw [][]interface{}) ([]*model.Student, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	h, err := parseHeader(raw[0], studentFields)
	if err != nil {
		return nil, err
	}

	students := make([]*model.Student, 0, len(raw)-1)
	seen := make(map[string]int)
	for i := 1; i < len(raw); i++ {
		row := raw[i]
		// Spreadsheet rows are 1-indexed
		rowNum := i + 1

		studentID := h.get(colStudentID, row)
		if studentID == "" {
			continue
		}
		if prev, ok := seen[studentID]; ok {
			return nil, fmt.Errorf("row %d: student ID %s already used in row %d", rowNum, studentID, prev)
		}
		seen[studentID] = rowNum

		firstName := h.get(colFirstName, row)
		if firstName == "" {
			return nil, fmt.Errorf("row %d: missing first name", rowNum)
		}

		email := h.get(colEmail, row)
		if email != "" {
			if err := validate.Var(email, "email"); err != nil {
				return nil, fmt.Errorf("row %d: invalid email %q", rowNum, email)
			}
		}

		waterComfort, err := parseComfort(h.get(colWaterComfort, row))
		if err != nil {
			return nil, fmt.Errorf("row %d: water comfort: %w", rowNum, err)
		}
		tentComfort, err := parseComfort(h.get(colTentComfort, row))
		if err != nil {
			return nil, fmt.Errorf("row %d: tent comfort: %w", rowNum, err)
		}

		students = append(students, &model.Student{
			StudentID: studentID,
			FirstName: firstName,
			LastName:  h.get(colLastName, row),
			Email:     email,
			TripPreferences: [model.PreferenceCount]string{
				h.get(colTripPref1, row),
				h.get(colTripPref2, row),
				h.get(colTripPref3, row),
			},
			Dorm:         h.get(colDorm, row),
			AthleticTeam: h.get(colAthleticTeam, row),
			Gender:       h.get(colGender, row),
			WaterComfort: waterComfort,
			TentComfort:  tentComfort,
		})
	}

	return students, nil
}

// parseComfort reads a 1-5 rating; blank means not given
func parseComfort(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid rating %q", s)
	}
	if v < 1 || v > 5 {
		return nil, fmt.Errorf("rating %d out of range 1-5", v)
	}
	return &v, nil
}
