package pagecontent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/page-content/pkg/pagecontent"
)

func newValidator() *pagecontent.Validator {
	return pagecontent.NewValidator(pagecontent.DefaultRegistry(), nil)
}

func TestValidateUnknownType(t *testing.T) {
	v := newValidator()

	sanitized, issues, err := v.Validate("NOPE", map[string]any{})
	assert.Nil(t, sanitized)
	assert.Nil(t, issues)
	assert.ErrorIs(t, err, pagecontent.ErrUnknownType)
}

func TestValidateStripsUndeclaredKeys(t *testing.T) {
	v := newValidator()

	sanitized, issues, err := v.Validate(pagecontent.TypeHero1, map[string]any{
		"title":        map[string]any{"en": "Welcome", "ar": "أهلا"},
		"legacyBanner": "old.png",
	})
	require.NoError(t, err)

	assert.NotContains(t, sanitized, "legacyBanner")
	require.Len(t, issues, 1)
	assert.Equal(t, "legacyBanner", issues[0].Field)
	assert.Contains(t, issues[0].Reason, "undeclared")
}

func TestValidateStripsDottedKeys(t *testing.T) {
	v := newValidator()

	sanitized, issues, err := v.Validate(pagecontent.TypeAbout1, map[string]any{
		"mission.title": "leaked flat key",
	})
	require.NoError(t, err)

	assert.NotContains(t, sanitized, "mission.title")
	require.NotEmpty(t, issues)
	found := false
	for _, issue := range issues {
		if issue.Field == "mission.title" {
			found = true
			assert.Contains(t, issue.Reason, "dotted")
		}
	}
	assert.True(t, found, "dotted key strip should be reported")
}

func TestValidateFillsLocalizedLocales(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name  string
		title any
		want  map[string]any
	}{
		{
			name:  "partial map gets missing locale",
			title: map[string]any{"en": "X"},
			want:  map[string]any{"en": "X", "ar": ""},
		},
		{
			name:  "bare string coerced into en",
			title: "Hello",
			want:  map[string]any{"en": "Hello", "ar": ""},
		},
		{
			name:  "nil becomes empty pair",
			title: nil,
			want:  map[string]any{"en": "", "ar": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sanitized, _, err := v.Validate(pagecontent.TypeHero1, map[string]any{"title": tt.title})
			require.NoError(t, err)
			assert.Equal(t, tt.want, sanitized["title"])
		})
	}
}

func TestValidateNumberClampAndDefault(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{name: "within bounds kept", value: 8.0, want: 8},
		{name: "above max clamped", value: 500.0, want: 24},
		{name: "below min clamped", value: 0.0, want: 1},
		{name: "non-number defaulted", value: "six", want: 6},
		{name: "int accepted", value: 12, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sanitized, _, err := v.Validate(pagecontent.TypeBlog, map[string]any{
				"title":      map[string]any{"en": "News", "ar": ""},
				"postsLimit": tt.value,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, sanitized["postsLimit"])
		})
	}
}

func TestValidateMissingNumberUsesDefault(t *testing.T) {
	v := newValidator()

	sanitized, _, err := v.Validate(pagecontent.TypeBlog, map[string]any{
		"title": map[string]any{"en": "News", "ar": ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 6.0, sanitized["postsLimit"])
}

func TestValidateButtons(t *testing.T) {
	v := newValidator()

	sanitized, issues, err := v.Validate(pagecontent.TypeHero1, map[string]any{
		"title": map[string]any{"en": "T", "ar": "ت"},
		"buttons": []any{
			map[string]any{"text": map[string]any{"en": "Apply"}, "url": "/apply"},
			"not a button",
		},
	})
	require.NoError(t, err)

	buttons, ok := sanitized["buttons"].([]any)
	require.True(t, ok)
	require.Len(t, buttons, 1)

	btn := buttons[0].(map[string]any)
	assert.Equal(t, map[string]any{"en": "Apply", "ar": ""}, btn["text"])
	assert.Equal(t, "/apply", btn["url"])

	dropped := false
	for _, issue := range issues {
		if issue.Field == "buttons[1]" {
			dropped = true
		}
	}
	assert.True(t, dropped, "malformed button drop should be reported")
}

func TestValidateNestedObject(t *testing.T) {
	v := newValidator()

	sanitized, _, err := v.Validate(pagecontent.TypeAbout1, map[string]any{
		"title": map[string]any{"en": "About", "ar": ""},
		"mission": map[string]any{
			"title":  map[string]any{"ar": "مهمة"},
			"BOGUS":  1,
			"nested": "junk",
		},
	})
	require.NoError(t, err)

	mission, ok := sanitized["mission"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"en": "", "ar": "مهمة"}, mission["title"])
	assert.NotContains(t, mission, "BOGUS")
	assert.NotContains(t, mission, "nested")
	// The sub-block keeps its full declared shape.
	assert.Contains(t, mission, "description")
}

func TestValidateParagraphs(t *testing.T) {
	v := newValidator()

	sanitized, _, err := v.Validate(pagecontent.TypePresident, map[string]any{
		"name": map[string]any{"en": "Dr. Salem", "ar": "د. سالم"},
		"paragraphs": []any{
			map[string]any{"en": "First."},
			"Second bare string.",
		},
	})
	require.NoError(t, err)

	paragraphs, ok := sanitized["paragraphs"].([]any)
	require.True(t, ok)
	require.Len(t, paragraphs, 2)
	assert.Equal(t, map[string]any{"en": "First.", "ar": ""}, paragraphs[0])
	assert.Equal(t, map[string]any{"en": "Second bare string.", "ar": ""}, paragraphs[1])
}
