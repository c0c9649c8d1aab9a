package checker

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullCompose = `version: "3"
services:
  app:
    image: a
  web:
    image: b
  db:
    image: c
  node:
    image: d
`

const composeWithoutDB = `version: "3"
services:
  app:
    image: a
  web:
    image: b
  node:
    image: d
`

type mapFS map[string]string

func (m mapFS) ReadFile(name string) ([]byte, error) {
	content, ok := m[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

func TestCheckText(t *testing.T) {
	testCases := []struct {
		name        string
		text        string
		wantMissing string
	}{
		{
			name: "Все четыре сервиса объявлены",
			text: fullCompose,
		},
		{
			name:        "Нет блока db",
			text:        composeWithoutDB,
			wantMissing: "db",
		},
		{
			name: "Метки без отступа",
			text: "app:\nweb:\ndb:\nnode:\n",
		},
		{
			name: "Значение на той же строке не мешает",
			text: "app: {image: a}\nweb: x\ndb: y\nnode: z\n",
		},
		{
			name: "Табуляция перед меткой",
			text: "\tapp:\n\tweb:\n\tdb:\n\tnode:\n",
		},
		{
			name:        "Метка как часть другого слова не засчитывается",
			text:        "myapp:\nweb:\ndb:\nnode:\n",
			wantMissing: "app",
		},
		{
			name:        "Метка не в начале строки не засчитывается",
			text:        "x: app:\nweb:\ndb:\nnode:\n",
			wantMissing: "app",
		},
		{
			name: "Вложенный ключ засчитывается",
			text: "services:\n  other:\n    app:\n      image: a\n  web:\n  db:\n  node:\n",
		},
		{
			name:        "Без двоеточия не засчитывается",
			text:        "app\nweb:\ndb:\nnode:\n",
			wantMissing: "app",
		},
		{
			name:        "Первым сообщается первый ненайденный сервис",
			text:        "app:\n",
			wantMissing: "web",
		},
		{
			name:        "Пустой документ",
			text:        "",
			wantMissing: "app",
		},
		{
			name: "Вертикальная табуляция перед меткой",
			text: "\vapp:\n\vweb:\n\vdb:\n\vnode:\n",
		},
		{
			name: "Неразрывный пробел перед меткой",
			text: "\u00a0app:\n\u00a0web:\n\u00a0db:\n\u00a0node:\n",
		},
		{
			name: "Пробелы Unicode перед меткой",
			text: "\u3000app:\n\u2003web:\n\u0085db:\n\x1cnode:\n",
		},
		{
			name: "Пустые строки перед метками",
			text: "\n\n  app:\n\n \n  web:\n\n  db:\n\r\n  node:\n",
		},
		{
			name:        "Невидимый символ нулевой ширины не считается пробелом",
			text:        "\u200bapp:\nweb:\ndb:\nnode:\n",
			wantMissing: "app",
		},
		{
			name: "Лишние сервисы допускаются",
			text: fullCompose + "  redis:\n    image: e\n",
		},
	}

	c := New()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := c.CheckText(tc.text)

			if tc.wantMissing == "" {
				assert.NoError(t, err)
				return
			}

			var missing *MissingServiceError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.wantMissing, missing.Service)
			assert.Contains(t, err.Error(), tc.wantMissing+":")
			assert.ErrorIs(t, err, ErrServiceMissing)
			assert.NotErrorIs(t, err, ErrUnreadable)
		})
	}
}

func TestCheckFile(t *testing.T) {
	t.Run("Корректный файл на диске", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFile)
		require.NoError(t, os.WriteFile(path, []byte(fullCompose), 0o644))

		assert.NoError(t, New().CheckFile(path))
	})

	t.Run("Отсутствующий сервис в файле", func(t *testing.T) {
		c := New(WithFileSystem(mapFS{DefaultFile: composeWithoutDB}))

		err := c.CheckFile(DefaultFile)

		var missing *MissingServiceError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "db", missing.Service)
	})

	t.Run("Отсутствующий файл — ошибка чтения, а не несовпадение", func(t *testing.T) {
		c := New(WithFileSystem(mapFS{}))

		err := c.CheckFile(DefaultFile)

		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, DefaultFile, readErr.Path)
		assert.ErrorIs(t, err, ErrUnreadable)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.NotErrorIs(t, err, ErrServiceMissing)
	})

	t.Run("Отсутствующий файл на диске", func(t *testing.T) {
		err := New().CheckFile(filepath.Join(t.TempDir(), "nope.yml"))

		assert.ErrorIs(t, err, ErrUnreadable)
	})
}

func TestWithServices(t *testing.T) {
	c := New(WithServices("api", "cache"))

	assert.Equal(t, []string{"api", "cache"}, c.Services())
	assert.NoError(t, c.CheckText("services:\n  api:\n  cache:\n"))
	assert.ErrorIs(t, c.CheckText(fullCompose), ErrServiceMissing)
}

func TestPatternQuotesLabel(t *testing.T) {
	p := NewPattern("a.b")

	assert.True(t, p.Match("  a.b:\n"))
	assert.False(t, p.Match("  axb:\n"))
}

func TestEvaluateAndMissing(t *testing.T) {
	c := New()

	results := c.Evaluate("web:\nnode:\n")
	require.Len(t, results, 4)
	assert.Equal(t, Result{Service: "app", Pattern: NewPattern("app").String(), Found: false}, results[0])
	assert.True(t, results[1].Found)

	assert.Equal(t, []string{"app", "db"}, c.Missing("web:\nnode:\n"))
	assert.Empty(t, c.Missing(fullCompose))
}

func TestFirstMissing(t *testing.T) {
	c := New()
	text := "app:\nnode:\n"

	err := FirstMissing(c.Evaluate(text))

	var missing *MissingServiceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, c.CheckText(text), err)
	assert.Equal(t, "web", missing.Service)
	assert.NoError(t, FirstMissing(c.Evaluate(fullCompose)))
}
