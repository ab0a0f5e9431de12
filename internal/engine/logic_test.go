package engine

import (
	"strings"
	"testing"

	"github.com/emersion/go-vcard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-saju/internal/pillar"
)

func TestParseBirth_Formats(t *testing.T) {
	tests := []struct {
		value     string
		want      pillar.BirthMoment
		hourKnown bool
	}{
		{"1971-11-17", pillar.BirthMoment{Year: 1971, Month: 11, Day: 17, Hour: defaultBirthHour}, false},
		{"19711117", pillar.BirthMoment{Year: 1971, Month: 11, Day: 17, Hour: defaultBirthHour}, false},
		{"1971-11-17T04:05:00", pillar.BirthMoment{Year: 1971, Month: 11, Day: 17, Hour: 4, Minute: 5}, true},
		{"1971-11-17T04:05", pillar.BirthMoment{Year: 1971, Month: 11, Day: 17, Hour: 4, Minute: 5}, true},
		{"19711117T040500", pillar.BirthMoment{Year: 1971, Month: 11, Day: 17, Hour: 4, Minute: 5}, true},
		{"19711117T0405", pillar.BirthMoment{Year: 1971, Month: 11, Day: 17, Hour: 4, Minute: 5}, true},
		// Zoned values are moved to KST, possibly onto the next day.
		{"1971-11-16T19:05:00Z", pillar.BirthMoment{Year: 1971, Month: 11, Day: 17, Hour: 4, Minute: 5}, true},
		{"1971-11-17T04:05:00+09:00", pillar.BirthMoment{Year: 1971, Month: 11, Day: 17, Hour: 4, Minute: 5}, true},
		{"1971-11-16T21:05:00+02:00", pillar.BirthMoment{Year: 1971, Month: 11, Day: 17, Hour: 4, Minute: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, hourKnown, err := parseBirth(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.hourKnown, hourKnown)
		})
	}
}

func TestParseBirth_Rejects(t *testing.T) {
	for _, v := range []string{"--0101", "--01-01", "yesterday", "1971-13-01", ""} {
		_, _, err := parseBirth(v)
		assert.Error(t, err, v)
	}
}

func decodeCard(t *testing.T, body string) vcard.Card {
	t.Helper()
	card, err := vcard.NewDecoder(strings.NewReader("BEGIN:VCARD\nVERSION:4.0\n" + body + "END:VCARD\n")).Decode()
	require.NoError(t, err)
	return card
}

func TestCardGender(t *testing.T) {
	tests := []struct {
		body string
		want pillar.Gender
		ok   bool
	}{
		{"GENDER:M\n", pillar.Male, true},
		{"GENDER:F\n", pillar.Female, true},
		{"GENDER:F;she/her\n", pillar.Female, true},
		{"GENDER:O\n", "", false},
		{"GENDER:U\n", "", false},
		{"GENDER:N\n", "", false},
		{"FN:No Gender\n", "", false},
	}
	for _, tt := range tests {
		got, ok := cardGender(decodeCard(t, tt.body))
		assert.Equal(t, tt.want, got, tt.body)
		assert.Equal(t, tt.ok, ok, tt.body)
	}
}

func TestCardName(t *testing.T) {
	assert.Equal(t, "Formatted", cardName(decodeCard(t, "FN:Formatted\nN:Struct;Name;;;\n")))
	assert.Equal(t, "Struct;Name;;;", cardName(decodeCard(t, "N:Struct;Name;;;\n")))
	assert.Equal(t, "Unknown", cardName(decodeCard(t, "BDAY:2000-01-01\n")))
}

func TestSubjectUID(t *testing.T) {
	m := pillar.BirthMoment{Year: 1971, Month: 11, Day: 17, Hour: 4}
	a := subjectUID(Subject{Name: "A", Chart: Chart{Moment: m}})
	assert.Len(t, a, 32)
	assert.Equal(t, a, subjectUID(Subject{Name: "A", Chart: Chart{Moment: m}}))
	assert.NotEqual(t, a, subjectUID(Subject{Name: "B", Chart: Chart{Moment: m}}))

	m.Minute = 1
	assert.NotEqual(t, a, subjectUID(Subject{Name: "A", Chart: Chart{Moment: m}}), "birth time is part of the identity")
}

func TestValidateTrigger(t *testing.T) {
	for _, ok := range []string{"-P1D", "P1D", "-PT15M", "-PT1H30M", "PT0S"} {
		assert.NoError(t, validateTrigger(ok), ok)
	}
	for _, bad := range []string{"1D", "-1 day", "soon"} {
		assert.ErrorIs(t, validateTrigger(bad), pillar.ErrInvalidInput, bad)
	}
}
