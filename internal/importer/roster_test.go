package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

type fakeProfileWriter struct {
	existing map[string]bool
	created  []*model.User
}

func (f *fakeProfileWriter) GetByStudentID(_ context.Context, studentID string) (*model.User, error) {
	if f.existing[studentID] {
		return &model.User{StudentID: studentID}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileWriter) Create(_ context.Context, user *model.User) error {
	f.created = append(f.created, user)
	return nil
}

func TestRosterImport(t *testing.T) {
	csv := "name,studentId\n" +
		"山田 太郎,1201\n" +
		"佐藤 花子,1202\n"

	profiles := &fakeProfileWriter{}
	imp := NewRosterImporter(profiles, "tsukutan.app")

	result, err := imp.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, profiles.created, 2)

	u := profiles.created[0]
	assert.Equal(t, "山田 太郎", u.Name)
	assert.Equal(t, "1201", u.StudentID)
	assert.Equal(t, "1201@tsukutan.app", u.Email)
	assert.Equal(t, model.RoleStudent, u.Role)

	// Initial password is "tsukuba" + studentId.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("tsukuba1201")))
}

func TestRosterImportWithoutHeader(t *testing.T) {
	profiles := &fakeProfileWriter{}
	imp := NewRosterImporter(profiles, "tsukutan.app")

	result, err := imp.Import(context.Background(), strings.NewReader("山田 太郎,1201\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
}

func TestRosterImportBadRows(t *testing.T) {
	csv := "name,studentId\n" +
		"良い 生徒,1201\n" +
		"短すぎ,12\n" +
		"数字でない,12ab\n" +
		",1203\n"

	profiles := &fakeProfileWriter{}
	imp := NewRosterImporter(profiles, "tsukutan.app")

	result, err := imp.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 3, result.Failed)
	assert.Len(t, result.Errors, 3)
}

func TestRosterImportDuplicate(t *testing.T) {
	profiles := &fakeProfileWriter{existing: map[string]bool{"1201": true}}
	imp := NewRosterImporter(profiles, "tsukutan.app")

	result, err := imp.Import(context.Background(), strings.NewReader("name,studentId\n山田 太郎,1201\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Errors[0], "already exists")
}
