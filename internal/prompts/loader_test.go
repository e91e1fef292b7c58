package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(PolishFile, KeySystem)
	require.NoError(t, err)
	assert.Contains(t, prompt, "訓練実施報告書")
	assert.Contains(t, prompt, "{{.LengthPrompt}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(RefineFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_LengthBands(t *testing.T) {
	ClearCache()

	assert.Equal(t, "280文字から420文字程度", MustGet(PolishFile, KeyLengthStandard))
	assert.Equal(t, "450文字から650文字程度", MustGet(PolishFile, KeyLengthLong))
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_ValuesAreNotReexpanded(t *testing.T) {
	template := "{{.Draft}} / {{.Role}}"
	data := map[string]string{
		"Draft": "本文に{{.Role}}と書かれている",
		"Role":  "営業",
	}

	assert.Equal(t, "本文に{{.Role}}と書かれている / 営業", Format(template, data))
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"

	assert.Equal(t, template, Format(template, map[string]string{}))
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List(RefineFile)
	require.NoError(t, err)
	assert.Equal(t, []string{KeySystem, KeyUser}, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get(RefineFile, KeyUser)
	require.NoError(t, err)

	prompt2, err := Get(RefineFile, KeyUser)
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
