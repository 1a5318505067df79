package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@gmail.com", true},
		{"first.last@sub.example.org", true},
		{"no-at-sign", false},
		{"", false},
		{"Bob <bob@example.com>", false},
		{"@example.com", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Email(tc.email), "email %q", tc.email)
	}
}

func TestSecret_AllChecksPass(t *testing.T) {
	assert.Empty(t, Secret("Abcd123!"))
}

func TestSecret_NamesEveryFailedCheck(t *testing.T) {
	tests := []struct {
		secret string
		want   []string
	}{
		{"abcd1234", []string{CheckUppercase, CheckSpecial}},
		{"ABCD1234", []string{CheckLowercase, CheckSpecial}},
		{"Abcdefg!", []string{CheckDigit}},
		{"Ab1!", []string{CheckMinLength}},
		{"", []string{CheckMinLength, CheckUppercase, CheckLowercase, CheckDigit, CheckSpecial}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Secret(tc.secret), "secret %q", tc.secret)
	}
}

func TestRecord_CombinesChecks(t *testing.T) {
	err := Record("not-an-email", "abcd1234", "")
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{CheckEmail, CheckUppercase, CheckSpecial}, verr.Checks)
}

func TestRecord_DescriptionTooLong(t *testing.T) {
	err := Record("a@gmail.com", "Abcd123!", strings.Repeat("x", MaxDescriptionLength+1))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{CheckDescriptionLength}, verr.Checks)
}

func TestRecord_Valid(t *testing.T) {
	assert.NoError(t, Record("a@gmail.com", "Abcd123!", "personal mail"))
	assert.NoError(t, Record("a@gmail.com", "Abcd123!", strings.Repeat("x", MaxDescriptionLength)))
}
