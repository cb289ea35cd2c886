package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
-- matrixquiz configuration
quiz.config = {
    title = '${QUIZ_TEST_TITLE:-Quiz}',
    unit = 25,
    secret_color = 'orange',
    seed = 7,
}
`

func TestParserParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quiz.lua")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	p, err := NewParser()
	require.NoError(t, err)
	defer p.Close()

	cfg, err := p.ParseFile(path)
	require.NoError(t, err)
	require.Equal(t, "Quiz", cfg.Window.Title)
	require.Equal(t, 25, cfg.Plane.Unit)
	require.Equal(t, int64(7), cfg.Quiz.Seed)
}

func TestParserParseFileMissing(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)
	defer p.Close()

	_, err = p.ParseFile(filepath.Join(t.TempDir(), "missing.lua"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParserExpandsEnv(t *testing.T) {
	t.Setenv("QUIZ_TEST_TITLE", "Aula 3")

	p, err := NewParser()
	require.NoError(t, err)
	defer p.Close()

	cfg, err := p.Parse([]byte(sampleConfig))
	require.NoError(t, err)
	require.Equal(t, "Aula 3", cfg.Window.Title)

	p.SetExpandEnv(false)
	cfg, err = p.Parse([]byte(sampleConfig))
	require.NoError(t, err)
	require.Equal(t, "${QUIZ_TEST_TITLE:-Quiz}", cfg.Window.Title)
}

func TestParserParseFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"configs/quiz.lua": &fstest.MapFile{Data: []byte(sampleConfig)},
	}

	p, err := NewParser()
	require.NoError(t, err)
	defer p.Close()

	cfg, err := p.ParseFromFS(fsys, "configs/quiz.lua")
	require.NoError(t, err)
	require.Equal(t, 25, cfg.Plane.Unit)

	_, err = p.ParseFromFS(fsys, "configs/other.lua")
	require.Error(t, err)
}

func TestParserParseReader(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)
	defer p.Close()

	cfg, err := p.ParseReader(strings.NewReader(`quiz.config = { label_range = 3 }`))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Plane.LabelRange)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), *cfg)

	path := filepath.Join(t.TempDir(), "quiz.lua")
	require.NoError(t, os.WriteFile(path, []byte(`quiz.config = { plane_width = 200 }`), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, 200, cfg.Plane.Width)
}

func TestParserClose(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)
	require.NoError(t, p.Close())
	// A second Close is harmless.
	require.NoError(t, p.Close())
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	t.Setenv("MATRIXQUIZ_TITLE", "")

	cfg, err := Load(filepath.Join("..", "..", "configs", "quiz.lua"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), *cfg)
	require.NoError(t, ValidateConfigStrict(cfg))
}
