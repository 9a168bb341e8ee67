package textmatch

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func Test_Pattern_Find(t *testing.T) {
	tests := []struct {
		name    string
		phrase  string
		text    string
		want    bool
		wantRaw string
	}{
		{name: "whole word", phrase: "Lund", text: "Grundskolan i Lund", want: true, wantRaw: "Lund"},
		{name: "inside longer word", phrase: "lund", text: "Grundskolan i Lundagård", want: false},
		{name: "ascii substring inside word", phrase: "VD", text: "Landsbygdsavdelningen", want: false},
		{name: "standalone abbreviation", phrase: "VD", text: "Ny VD sökes", want: true, wantRaw: "VD"},
		{name: "followed by hyphen", phrase: "vd", text: "Ansvarig VD-post", want: true, wantRaw: "VD"},
		{name: "preceded by swedish letter", phrase: "lund", text: "Ölund", want: false},
		{name: "followed by swedish letter", phrase: "lund", text: "Lundå", want: false},
		{name: "case insensitive non ascii", phrase: "göteborg", text: "Jobb i GÖTEBORG", want: true, wantRaw: "GÖTEBORG"},
		{name: "digits are not letters", phrase: "vd", text: "VD2026", want: true, wantRaw: "VD"},
		{name: "phrase with irregular whitespace", phrase: "Country  Manager", text: "Senior country \t manager Nordics", want: true, wantRaw: "country \t manager"},
		{name: "phrase needs whitespace between words", phrase: "fast tjänst", text: "fasttjänst", want: false},
		{name: "phrase words in order", phrase: "general manager", text: "manager general", want: false},
		{name: "empty phrase", phrase: "  ", text: "anything", want: false},
		{name: "empty text", phrase: "vd", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := NewText(tt.text)
			start, end, ok := Compile(tt.phrase).Find(text)
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.wantRaw, text.Slice(start, end))
			}
		})
	}
}

func Test_Pattern_Find_ShouldReturnFirstOccurrence(t *testing.T) {
	text := Join("Stockholm", "kontor i stockholm")
	start, end, ok := Compile("stockholm").Find(text)

	assert.True(t, ok)
	assert.Equal(t, 0, start)
	assert.Equal(t, "Stockholm", text.Slice(start, end))
}

func Test_Pattern_Len_ShouldCountRunes(t *testing.T) {
	assert.Equal(t, 14, Compile("Upplands   Väsby").Len())
	assert.Equal(t, 5, Compile("Väsby").Len())
	assert.Equal(t, 0, Compile("").Len())
}

func Test_Text_IsBlank(t *testing.T) {
	assert.True(t, Join("", " \n").IsBlank())
	assert.False(t, Join("x", "").IsBlank())
}

func Test_AnyIn(t *testing.T) {
	patterns := CompileAll([]string{"junior", "assistent"})
	assert.True(t, AnyIn(patterns, NewText("Assistent till VD")))
	assert.False(t, AnyIn(patterns, NewText("Juniorkonsult")))
	assert.False(t, AnyIn(nil, NewText("junior")))
}
