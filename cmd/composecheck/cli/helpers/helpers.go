package helpers

import (
	"errors"
	"fmt"
	"slices"

	"github.com/waste3d/composecheck/internal/checker"
	"github.com/waste3d/composecheck/pkg/parser"
)

// ErrSettings помечает ошибки файла настроек и флагов, чтобы CLI вернул отдельный код выхода.
var ErrSettings = errors.New("некорректные настройки")

type Request struct {
	File     string
	Services []string
}

// Resolve собирает итоговые параметры проверки.
// Приоритет: аргументы командной строки, затем файл настроек, затем значения по умолчанию.
func Resolve(configPath, fileArg string, services []string) (*Request, error) {
	config, err := parser.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSettings, err)
	}

	req := &Request{
		File:     checker.DefaultFile,
		Services: slices.Clone(checker.DefaultServices),
	}

	if config != nil {
		if config.File != "" {
			req.File = config.File
		}
		if len(config.Services) > 0 {
			req.Services = config.Services
		}
	}

	if fileArg != "" {
		req.File = fileArg
	}

	if len(services) > 0 {
		for _, name := range services {
			if err := parser.ValidateServiceName(name); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrSettings, err)
			}
		}
		req.Services = services
	}

	return req, nil
}
