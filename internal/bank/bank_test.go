package bank

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuestions() []Question {
	return []Question{
		{ID: "1", SkillCode: "G.1", Engine: "numberLine", Answer: "5"},
		{ID: "2", SkillCode: "G.4", Engine: "vertical", Answer: "7"},
		{ID: "3", SkillCode: "G.1", Engine: "numberLine", Answer: "9"},
		{ID: "4", Engine: "fact", Answer: "12"},
	}
}

func ids(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		sel  Selector
		want []string
	}{
		{"all", All(), []string{"1", "2", "3", "4"}},
		{"zero value", Selector{}, []string{"1", "2", "3", "4"}},
		{"single code", Code("G.1"), []string{"1", "3"}},
		{"code set keeps order", Codes("G.4", "G.1"), []string{"1", "2", "3"}},
		{"no match", Code("Z.9"), []string{}},
		{"empty set", Codes(), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(testQuestions(), tt.sel)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSelector_String(t *testing.T) {
	assert.Equal(t, "all", All().String())
	assert.Equal(t, "G.1,G.4", Codes("G.1", "G.4").String())
}

func TestTable_LoadUnknown(t *testing.T) {
	tbl := Table{"a.json": testQuestions()}

	_, err := tbl.Load("missing.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing.json", nf.BankID)
}

func TestTable_LoadReturnsCopy(t *testing.T) {
	tbl := Table{"a.json": testQuestions()}

	qs, err := tbl.Load("a.json")
	require.NoError(t, err)
	qs[0].ID = "changed"

	again, err := tbl.Load("a.json")
	require.NoError(t, err)
	assert.Equal(t, "1", again[0].ID)
}

func TestMerge_LaterWins(t *testing.T) {
	a := Table{"x.json": {{ID: "a"}}, "y.json": {{ID: "y"}}}
	b := Table{"x.json": {{ID: "b"}}}

	m := Merge(a, b)
	assert.Equal(t, []string{"x.json", "y.json"}, m.IDs())
	assert.Equal(t, "b", m["x.json"][0].ID)
}

func TestParse(t *testing.T) {
	raw := []byte(`[
		{"id": 7, "grade": "3", "question": "Legacy prompt", "engine": "fact", "answer": 2.50},
		{"id": "b", "prompt": "Is 4 even?", "difficulty": 1, "engine": "selection", "data": {"options": []}, "answer": true}
	]`)

	qs, err := Parse("test.json", raw)
	require.NoError(t, err)
	require.Len(t, qs, 2)

	assert.Equal(t, "7", qs[0].ID)
	assert.Equal(t, Grade3, qs[0].Grade)
	assert.Equal(t, "Legacy prompt", qs[0].Prompt)
	assert.Equal(t, Answer("2.5"), qs[0].Answer)

	assert.Equal(t, "b", qs[1].ID)
	assert.Equal(t, Answer("true"), qs[1].Answer)
	assert.JSONEq(t, `{"options": []}`, string(qs[1].Data))
}

func TestParse_PromptWinsOverLegacyQuestion(t *testing.T) {
	raw := []byte(`[{"id": "a", "prompt": "new", "question": "old", "engine": "fact", "answer": "1"}]`)

	qs, err := Parse("test.json", raw)
	require.NoError(t, err)
	assert.Equal(t, "new", qs[0].Prompt)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"not an array", `{"id": "a"}`},
		{"missing engine", `[{"id": "a", "answer": "1"}]`},
		{"missing answer", `[{"id": "a", "engine": "fact"}]`},
		{"unknown grade", `[{"id": "a", "grade": "12", "engine": "fact", "answer": "1"}]`},
		{"negative difficulty", `[{"id": "a", "difficulty": -1, "engine": "fact", "answer": "1"}]`},
		{"empty id", `[{"id": "", "engine": "fact", "answer": "1"}]`},
		{"duplicate id", `[{"id": "a", "engine": "fact", "answer": "1"}, {"id": "a", "engine": "fact", "answer": "2"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.json", []byte(tt.raw))
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "bad.json", ve.BankID)
		})
	}
}

func TestParse_EmptyArray(t *testing.T) {
	qs, err := Parse("empty.json", []byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
}

func TestEmbedded(t *testing.T) {
	tbl, err := Embedded()
	require.NoError(t, err)
	require.NotEmpty(t, tbl)

	for _, id := range tbl.IDs() {
		qs, err := tbl.Load(id)
		require.NoError(t, err)
		assert.NotEmpty(t, qs, "bank %s", id)
		for _, q := range qs {
			assert.NotEmpty(t, q.Engine, "%s/%s", id, q.ID)
			assert.NotEmpty(t, q.Prompt, "%s/%s", id, q.ID)
		}
	}

	g3, err := tbl.Load("grade_3_bank.json")
	require.NoError(t, err)
	assert.NotEmpty(t, Filter(g3, Code("G.1")))
	assert.NotEmpty(t, Filter(g3, Code("L.1")))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.json"),
		[]byte(`[{"id": "m1", "engine": "fact", "answer": 4}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	tbl, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"mine.json"}, tbl.IDs())
	assert.Equal(t, Answer("4"), tbl["mine.json"][0].Answer)
}

func TestLoadDir_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`[{"id": 1}]`), 0o644))

	_, err := LoadDir(dir)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "broken.json", ve.BankID)
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestParseGrade(t *testing.T) {
	g, err := ParseGrade("Alg1")
	require.NoError(t, err)
	assert.Equal(t, GradeAlg1, g)
	assert.Equal(t, "Algebra 1", g.DisplayName())
	assert.Equal(t, "Grade 3", Grade3.DisplayName())

	_, err = ParseGrade("13")
	assert.Error(t, err)
}
