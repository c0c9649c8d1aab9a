package checker

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
)

// DefaultFile — файл, который проверяется, если путь не указан явно.
const DefaultFile = "docker-compose.yml"

// DefaultServices — сервисы, которые обязаны быть объявлены в docker-compose.yml.
var DefaultServices = []string{"app", "web", "db", "node"}

var (
	ErrUnreadable     = errors.New("файл конфигурации недоступен")
	ErrServiceMissing = errors.New("сервис не объявлен")
)

// FileSystem нужен, чтобы в тестах подменять чтение файлов.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

type OSFileSystem struct{}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// ReadError — файл отсутствует или не читается. Паттерны в этом случае не проверяются.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("не удалось прочитать '%s': %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Is(target error) bool { return target == ErrUnreadable }

// MissingServiceError — паттерн сервиса не найден в тексте.
type MissingServiceError struct {
	Service string
	Pattern string
}

func (e *MissingServiceError) Error() string {
	return fmt.Sprintf("сервис '%s' не найден (паттерн %s)", e.Service, e.Pattern)
}

func (e *MissingServiceError) Is(target error) bool { return target == ErrServiceMissing }

// leadingSpace — отступ перед меткой. Кроме \s сюда входят \v, \x1c-\x1f, \x85
// и все пробельные символы Unicode (категория Z), например неразрывный пробел.
const leadingSpace = `[\s\v\x1c-\x1f\x85\p{Z}]*`

// Pattern ищет метку сервиса в начале строки, допуская отступ перед ней.
// YAML при этом не разбирается: вложенный ключ с тем же именем тоже засчитывается.
type Pattern struct {
	Service string
	re      *regexp.Regexp
}

func NewPattern(service string) Pattern {
	return Pattern{
		Service: service,
		re:      regexp.MustCompile(`(?m)^` + leadingSpace + regexp.QuoteMeta(service) + `:`),
	}
}

func (p Pattern) String() string { return p.re.String() }

func (p Pattern) Match(text string) bool { return p.re.MatchString(text) }

type Result struct {
	Service string
	Pattern string
	Found   bool
}

type Checker struct {
	fs       FileSystem
	patterns []Pattern
	logger   *slog.Logger
}

type Option func(*Checker)

func WithServices(services ...string) Option {
	return func(c *Checker) {
		c.patterns = compile(services)
	}
}

func WithFileSystem(fs FileSystem) Option {
	return func(c *Checker) {
		c.fs = fs
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

func New(opts ...Option) *Checker {
	c := &Checker{
		fs:       OSFileSystem{},
		patterns: compile(DefaultServices),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func compile(services []string) []Pattern {
	patterns := make([]Pattern, 0, len(services))
	for _, s := range services {
		patterns = append(patterns, NewPattern(s))
	}
	return patterns
}

// Services возвращает проверяемые сервисы в порядке проверки.
func (c *Checker) Services() []string {
	services := make([]string, len(c.patterns))
	for i, p := range c.patterns {
		services[i] = p.Service
	}
	return services
}

// CheckFile читает файл целиком и проверяет его текст.
// Ошибка чтения возвращается как *ReadError до проверки каких-либо паттернов.
func (c *Checker) CheckFile(path string) error {
	text, err := c.ReadText(path)
	if err != nil {
		return err
	}
	return c.CheckText(text)
}

func (c *Checker) ReadText(path string) (string, error) {
	c.logger.Debug("чтение файла", "path", path)

	content, err := c.fs.ReadFile(path)
	if err != nil {
		c.logger.Debug("файл недоступен", "path", path, "error", err)
		return "", &ReadError{Path: path, Err: err}
	}
	return string(content), nil
}

// CheckText возвращает ошибку для первого ненайденного сервиса.
func (c *Checker) CheckText(text string) error {
	for _, p := range c.patterns {
		found := p.Match(text)
		c.logger.Debug("проверка сервиса", "service", p.Service, "pattern", p.String(), "found", found)
		if !found {
			return &MissingServiceError{Service: p.Service, Pattern: p.String()}
		}
	}
	return nil
}

// Evaluate проверяет каждый паттерн независимо от остальных.
func (c *Checker) Evaluate(text string) []Result {
	results := make([]Result, 0, len(c.patterns))
	for _, p := range c.patterns {
		found := p.Match(text)
		c.logger.Debug("проверка сервиса", "service", p.Service, "pattern", p.String(), "found", found)
		results = append(results, Result{Service: p.Service, Pattern: p.String(), Found: found})
	}
	return results
}

// FirstMissing превращает результаты Evaluate в ту же ошибку, что вернул бы CheckText.
func FirstMissing(results []Result) error {
	for _, r := range results {
		if !r.Found {
			return &MissingServiceError{Service: r.Service, Pattern: r.Pattern}
		}
	}
	return nil
}

func (c *Checker) Missing(text string) []string {
	var missing []string
	for _, r := range c.Evaluate(text) {
		if !r.Found {
			missing = append(missing, r.Service)
		}
	}
	return missing
}
