package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

// ProfileWriter creates and looks up student accounts during roster import.
type ProfileWriter interface {
	GetByStudentID(ctx context.Context, studentID string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// RosterResult holds the result of a class roster import.
type RosterResult struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// RosterImporter creates student accounts from a class roster CSV.
// Expected columns: name, studentId. Student IDs must be 4 digits; the
// initial password is "tsukuba" + studentId.
type RosterImporter struct {
	profiles    ProfileWriter
	emailDomain string
}

func NewRosterImporter(profiles ProfileWriter, emailDomain string) *RosterImporter {
	return &RosterImporter{profiles: profiles, emailDomain: emailDomain}
}

func (i *RosterImporter) Import(ctx context.Context, r io.Reader) (*RosterResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	result := &RosterResult{Errors: []string{}}
	rowNum := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster: %w", err)
		}

		rowNum++
		// Skip a header row if present
		if rowNum == 1 && looksLikeHeader(row) {
			continue
		}

		name, studentID, err := parseRosterRow(row)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		if _, err := i.profiles.GetByStudentID(ctx, studentID); err == nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: student %s already exists", rowNum, studentID))
			continue
		} else if err != gorm.ErrRecordNotFound {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("tsukuba"+studentID), bcrypt.DefaultCost)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		user := &model.User{
			StudentID:    studentID,
			Name:         name,
			Email:        studentID + "@" + i.emailDomain,
			PasswordHash: string(hash),
			Role:         model.RoleStudent,
		}
		if err := i.profiles.Create(ctx, user); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

func parseRosterRow(row []string) (name, studentID string, err error) {
	if len(row) < 2 {
		return "", "", fmt.Errorf("expected name and studentId columns")
	}
	name = strings.TrimSpace(row[0])
	studentID = strings.TrimSpace(row[1])

	if name == "" {
		return "", "", fmt.Errorf("name is required")
	}
	if len(studentID) != 4 || !isDigits(studentID) {
		return "", "", fmt.Errorf("studentId %q must be 4 digits", studentID)
	}
	return name, studentID, nil
}

func looksLikeHeader(row []string) bool {
	return len(row) >= 2 && !isDigits(strings.TrimSpace(row[1]))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
