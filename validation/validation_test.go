package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/jobtrack-go/apperror"
)

type sample struct {
	Name     string  `json:"name" validate:"required,max=5,trimmed"`
	Password string  `form:"password" validate:"required,maxbytes"`
	Link     *string `json:"link" validate:"omitempty,absurl"`
}

func TestStruct(t *testing.T) {
	v := New()
	link := "https://example.com/jobs/1"
	require.NoError(t, v.Struct(sample{Name: "bob", Password: "pw", Link: &link}))

	tests := []struct {
		name string
		in   sample
		msg  string
	}{
		{"missing name", sample{Password: "pw"}, "name is required"},
		{"long name", sample{Name: "bobbybob", Password: "pw"}, "name must be at most 5 characters"},
		{"padded name", sample{Name: " bob", Password: "pw"}, "name must not start or end with whitespace"},
		{"long password", sample{Name: "bob", Password: strings.Repeat("é", 40)}, "password must be at most 72 bytes"},
		{"relative link", sample{Name: "bob", Password: "pw", Link: strPtr("/jobs/1")}, "link must be an absolute http(s) URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			require.Error(t, err)
			assert.True(t, apperror.IsInvalidInput(err))
			ae, _ := apperror.FromError(err)
			assert.Equal(t, tt.msg, ae.Message)
		})
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	assert.True(t, IsAbsoluteURL("http://a.example"))
	assert.False(t, IsAbsoluteURL("ftp://a.example"))
	assert.False(t, IsAbsoluteURL("a.example/path"))
	assert.False(t, IsAbsoluteURL("https://"))
}

func strPtr(s string) *string { return &s }
